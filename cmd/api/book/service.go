package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

type Repository interface {
	CreateBook(ctx context.Context, bookEntry Book) (Book, error)
	ListBooks(ctx context.Context, filter ListBooksFilter) ([]Book, error)
	GetBookByID(ctx context.Context, id string) (Book, error)
	UpdateBook(ctx context.Context, bookEntry Book) (Book, error)
	DeleteBook(ctx context.Context, id string) error
}

type Notifier interface {
	BookAdded(ctx context.Context, b Book) error
}

// idAttempts bounds how many fresh ids Add draws before giving up on a collision.
const idAttempts = 3

type Service struct {
	repo                 Repository
	notifier             Notifier
	notificationsTimeout time.Duration
	logger               *slog.Logger
}

// NewService builds the book store on top of repo. notifier may be nil.
func NewService(repo Repository, notifier Notifier, notificationsTimeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:                 repo,
		notifier:             notifier,
		notificationsTimeout: notificationsTimeout,
		logger:               logger,
	}
}

/* Validates the request, stores it as a new book and returns the generated id. */
func (s *Service) Add(ctx context.Context, req AddBookRequest) (string, error) {
	if req.Name == "" {
		return "", ErrResponseAddNameRequired
	}
	if req.ReadPage > req.PageCount {
		return "", ErrResponseAddReadPageExceeds
	}

	now := timestamp()
	newBook := Book{
		Name:       req.Name,
		Year:       req.Year,
		Author:     req.Author,
		Summary:    req.Summary,
		Publisher:  req.Publisher,
		PageCount:  req.PageCount,
		ReadPage:   req.ReadPage,
		Reading:    req.Reading,
		Finished:   isFinished(req.PageCount, req.ReadPage),
		InsertedAt: now,
		UpdatedAt:  now,
	}

	var stored Book
	for attempt := 1; ; attempt++ {
		id, err := gonanoid.New(IDLength)
		if err != nil {
			return "", fmt.Errorf("generating book id: %w", err)
		}
		newBook.ID = id

		stored, err = s.repo.CreateBook(ctx, newBook)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateID) || attempt == idAttempts {
			return "", fmt.Errorf("adding book: %w", err)
		}
		s.logger.Warn("generated book id already taken, retrying", "id", id, "attempt", attempt)
	}

	s.notifyBookAdded(stored)
	return stored.ID, nil
}

/* Returns the id, name and publisher of every book matching the filter, in insertion order. */
func (s *Service) List(ctx context.Context, filter ListBooksFilter) ([]BookSummary, error) {
	books, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	summaries := make([]BookSummary, 0, len(books))
	for _, b := range books {
		summaries = append(summaries, b.Brief())
	}
	return summaries, nil
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	b, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResponseBookNotFound) {
			return Book{}, ErrResponseBookNotFound
		}
		return Book{}, fmt.Errorf("getting book: %w", err)
	}
	return b, nil
}

/* Validates the request first, then replaces every mutable field of the stored book. */
func (s *Service) Update(ctx context.Context, id string, req UpdateBookRequest) error {
	if req.Name == "" {
		return ErrResponseUpdateNameRequired
	}
	if req.ReadPage > req.PageCount {
		return ErrResponseUpdateReadPageExceeds
	}

	bookEntry := Book{
		ID:        id,
		Name:      req.Name,
		Year:      req.Year,
		Author:    req.Author,
		Summary:   req.Summary,
		Publisher: req.Publisher,
		PageCount: req.PageCount,
		ReadPage:  req.ReadPage,
		Reading:   req.Reading,
		Finished:  isFinished(req.PageCount, req.ReadPage),
		UpdatedAt: timestamp(),
	}

	_, err := s.repo.UpdateBook(ctx, bookEntry)
	if err != nil {
		if errors.Is(err, ErrResponseBookNotFound) {
			return ErrResponseUpdateNotFound
		}
		return fmt.Errorf("updating book: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResponseBookNotFound) {
			return ErrResponseDeleteNotFound
		}
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

func (s *Service) notifyBookAdded(b Book) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notificationsTimeout)
		defer cancel()
		if err := s.notifier.BookAdded(ctx, b); err != nil {
			s.logger.Error("notifying book added", "id", b.ID, "error", err)
		}
	}()
}

func timestamp() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
