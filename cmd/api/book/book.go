package book

import (
	"strings"
	"time"
)

// IDLength is the number of characters of a generated book id.
const IDLength = 16

type Book struct {
	ID         string
	Name       string
	Year       int
	Author     string
	Summary    string
	Publisher  string
	PageCount  int
	ReadPage   int
	Reading    bool
	Finished   bool
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// BookSummary is the projection returned by List.
type BookSummary struct {
	ID        string
	Name      string
	Publisher string
}

type AddBookRequest struct {
	Name      string
	Year      int
	Author    string
	Summary   string
	Publisher string
	PageCount int
	ReadPage  int
	Reading   bool
}

type UpdateBookRequest struct {
	Name      string
	Year      int
	Author    string
	Summary   string
	Publisher string
	PageCount int
	ReadPage  int
	Reading   bool
}

// ListBooksFilter narrows List. Zero values impose no constraint.
type ListBooksFilter struct {
	Name     string
	Reading  *bool
	Finished *bool
}

/* Reports whether the book satisfies every constraint set on the filter. */
func (f ListBooksFilter) Match(b Book) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Reading != nil && b.Reading != *f.Reading {
		return false
	}
	if f.Finished != nil && b.Finished != *f.Finished {
		return false
	}
	return true
}

// Brief projects the book onto the fields exposed by List.
func (b Book) Brief() BookSummary {
	return BookSummary{ID: b.ID, Name: b.Name, Publisher: b.Publisher}
}

func isFinished(pageCount, readPage int) bool {
	return pageCount == readPage
}
