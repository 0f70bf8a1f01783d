package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bookshelf-api/cmd/api/book"
)

const bookAddedTopic = "/book_added"

type Ntfy struct {
	baseURL string
	client  *http.Client
}

func NewNtfy(notificationsBaseURL string, client *http.Client) *Ntfy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Ntfy{
		baseURL: strings.TrimSuffix(notificationsBaseURL, "/"),
		client:  client,
	}
}

type ErrNotificationFailed struct {
	StatusCode int
}

func (e ErrNotificationFailed) Error() string {
	return fmt.Sprintf("ntfy wrong response - want: 2xx, got: %d", e.StatusCode)
}

/* Publishes a "book added" message on the ntfy topic. */
func (ntf *Ntfy) BookAdded(ctx context.Context, b book.Book) error {
	message := fmt.Sprintf("New book added:\nTitle: %s\nPublisher: %s", b.Name, b.Publisher)
	topic := ntf.baseURL + bookAddedTopic

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, topic, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("delivering message to topic %s: %w", topic, err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", "Book added")

	resp, err := ntf.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering message to topic %s: %w", topic, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delivering message to topic %s: %w", topic, ErrNotificationFailed{StatusCode: resp.StatusCode})
	}
	return nil
}
