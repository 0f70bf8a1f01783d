package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/bookshelf-api/cmd/api/book"
	"github.com/bookshelf-api/cmd/api/httpx"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock_handlers.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = newValidator()

type ServiceAPI interface {
	Add(ctx context.Context, req book.AddBookRequest) (string, error)
	List(ctx context.Context, filter book.ListBooksFilter) ([]book.BookSummary, error)
	Get(ctx context.Context, id string) (book.Book, error)
	Update(ctx context.Context, id string, req book.UpdateBookRequest) error
	Delete(ctx context.Context, id string) error
}

type BookHandler struct {
	bookService ServiceAPI
	logger      *slog.Logger
}

func NewBookHandler(bookService ServiceAPI, logger *slog.Logger) *BookHandler {
	return &BookHandler{bookService: bookService, logger: logger}
}

type BookEntry struct {
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage"`
	Reading   bool   `json:"reading"`
}

type BookResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Year       int       `json:"year"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Finished   bool      `json:"finished"`
	Reading    bool      `json:"reading"`
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type BookSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

type listBooksQuery struct {
	Name     string `query:"name"`
	Reading  string `query:"reading" validate:"omitempty,oneof=0 1"`
	Finished string `query:"finished" validate:"omitempty,oneof=0 1"`
}

/* Validates the entry, then stores the entry as a new book. */
func (h *BookHandler) addBook(w http.ResponseWriter, r *http.Request) {
	bookEntry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	id, err := h.bookService.Add(r.Context(), book.AddBookRequest{
		Name:      bookEntry.Name,
		Year:      bookEntry.Year,
		Author:    bookEntry.Author,
		Summary:   bookEntry.Summary,
		Publisher: bookEntry.Publisher,
		PageCount: bookEntry.PageCount,
		ReadPage:  bookEntry.ReadPage,
		Reading:   bookEntry.Reading,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, "book added", map[string]string{"bookId": id})
}

/* Returns the stored books matching the query filters. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := listBooksQuery{
		Name:     query.Get("name"),
		Reading:  query.Get("reading"),
		Finished: query.Get("finished"),
	}

	if err := validate.Struct(params); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			field := validationErrs[0].Field()
			h.respondFail(w, r, http.StatusBadRequest, fmt.Sprintf("query parameter '%s' must be 0 or 1", field))
			return
		}
		h.respondError(w, r, err)
		return
	}

	filter := book.ListBooksFilter{
		Name:     params.Name,
		Reading:  flagToBool(params.Reading),
		Finished: flagToBool(params.Finished),
	}

	summaries, err := h.bookService.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	books := make([]BookSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		books = append(books, BookSummaryResponse{ID: s.ID, Name: s.Name, Publisher: s.Publisher})
	}
	h.respond(w, r, http.StatusOK, "", map[string][]BookSummaryResponse{"books": books})
}

/* Returns the book with that specific ID. */
func (h *BookHandler) getBookById(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	returnedBook, err := h.bookService.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, "", map[string]BookResponse{"book": bookToResponse(returnedBook)})
}

/* Validates the entry, then updates the asked book. */
func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	bookEntry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	err := h.bookService.Update(r.Context(), id, book.UpdateBookRequest{
		Name:      bookEntry.Name,
		Year:      bookEntry.Year,
		Author:    bookEntry.Author,
		Summary:   bookEntry.Summary,
		Publisher: bookEntry.Publisher,
		PageCount: bookEntry.PageCount,
		ReadPage:  bookEntry.ReadPage,
		Reading:   bookEntry.Reading,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, "book updated", nil)
}

func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if err := h.bookService.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, "book deleted", nil)
}

/* Reads the JSON body into a BookEntry, answering 400 when it is malformed. */
func (h *BookHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (BookEntry, bool) {
	var bookEntry BookEntry
	if err := json.NewDecoder(r.Body).Decode(&bookEntry); err != nil {
		h.logger.Debug("decoding book entry", "error", err, "request_id", httpx.RequestIDFrom(r))
		h.respondFail(w, r, http.StatusBadRequest, "invalid json request")
		return BookEntry{}, false
	}
	return bookEntry, true
}

/* Maps a service error onto its status code and writes it. */
func (h *BookHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch book.KindOf(err) {
	case book.KindMissingField, book.KindInvalidRange:
		h.respondFail(w, r, http.StatusBadRequest, err.Error())
	case book.KindNotFound:
		h.respondFail(w, r, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("handling request", "error", err, "request_id", httpx.RequestIDFrom(r))
		if errW := httpx.JSONError(w, http.StatusInternalServerError, "internal server error"); errW != nil {
			h.logger.Error("writing response", "error", errW)
		}
	}
}

func (h *BookHandler) respondFail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := httpx.JSONFail(w, status, message); err != nil {
		h.logger.Error("writing response", "error", err, "request_id", httpx.RequestIDFrom(r))
	}
}

func (h *BookHandler) respond(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	if err := httpx.JSONSuccess(w, status, message, data); err != nil {
		h.logger.Error("writing response", "error", err, "request_id", httpx.RequestIDFrom(r))
	}
}

/*Copy the fields of a book object to an http layer struct with json tags*/
func bookToResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:         b.ID,
		Name:       b.Name,
		Year:       b.Year,
		Author:     b.Author,
		Summary:    b.Summary,
		Publisher:  b.Publisher,
		PageCount:  b.PageCount,
		ReadPage:   b.ReadPage,
		Finished:   b.Finished,
		Reading:    b.Reading,
		InsertedAt: b.InsertedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// flagToBool turns an already validated "0"/"1" query flag into a filter value; "" means unset.
func flagToBool(flag string) *bool {
	if flag == "" {
		return nil
	}
	v := flag == "1"
	return &v
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
