package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bookshelf-api/cmd/api/book"
	"github.com/hashicorp/go-memdb"
)

const bookTable = "book"

type InMemoryStore struct {
	db *memdb.MemDB
	// seq is only touched inside write transactions, which memdb serialises.
	seq uint64
}

func NewInMemoryStore() (*InMemoryStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			bookTable: {
				Name: bookTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}

	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("validating in-memory schema: %w", err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &InMemoryStore{db: db}, nil
}

// storedBook is the row kept in memdb. Seq records insertion order.
type storedBook struct {
	ID         string
	Seq        uint64
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

func toStored(b book.Book, seq uint64) storedBook {
	return storedBook{
		ID:         b.ID,
		Seq:        seq,
		Name:       b.Name,
		Year:       b.Year,
		Author:     b.Author,
		Summary:    b.Summary,
		Publisher:  b.Publisher,
		PageCount:  b.PageCount,
		ReadPage:   b.ReadPage,
		Reading:    b.Reading,
		Finished:   b.Finished,
		InsertedAt: b.InsertedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (s storedBook) toBook() book.Book {
	return book.Book{
		ID:         s.ID,
		Name:       s.Name,
		Year:       s.Year,
		Author:     s.Author,
		Summary:    s.Summary,
		Publisher:  s.Publisher,
		PageCount:  s.PageCount,
		ReadPage:   s.ReadPage,
		Reading:    s.Reading,
		Finished:   s.Finished,
		InsertedAt: s.InsertedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func (store *InMemoryStore) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", bookEntry.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}
	if raw != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", book.ErrDuplicateID)
	}

	store.seq++
	row := toStored(bookEntry, store.seq)
	if err := txn.Insert(bookTable, row); err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	txn.Commit()
	return row.toBook(), nil
}

/* Returns every stored book matching the filter, oldest insertion first. */
func (store *InMemoryStore) ListBooks(ctx context.Context, filter book.ListBooksFilter) ([]book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(bookTable, "id")
	if err != nil {
		return []book.Book{}, fmt.Errorf("listing books from db: %w", err)
	}

	rows := []storedBook{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(storedBook)
		if !filter.Match(row.toBook()) {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Seq < rows[j].Seq
	})

	books := make([]book.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toBook())
	}
	return books, nil
}

func (store *InMemoryStore) GetBookByID(ctx context.Context, id string) (book.Book, error) {
	txn := store.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", id)
	if err != nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
	}

	return raw.(storedBook).toBook(), nil
}

func (store *InMemoryStore) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", bookEntry.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", book.ErrResponseBookNotFound)
	}

	updated := raw.(storedBook)
	updated.Name = bookEntry.Name
	updated.Year = bookEntry.Year
	updated.Author = bookEntry.Author
	updated.Summary = bookEntry.Summary
	updated.Publisher = bookEntry.Publisher
	updated.PageCount = bookEntry.PageCount
	updated.ReadPage = bookEntry.ReadPage
	updated.Reading = bookEntry.Reading
	updated.Finished = bookEntry.Finished
	updated.UpdatedAt = bookEntry.UpdatedAt
	//ID, Seq and InsertedAt will not change

	if err := txn.Insert(bookTable, updated); err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}

	txn.Commit()
	return updated.toBook(), nil
}

func (store *InMemoryStore) DeleteBook(ctx context.Context, id string) error {
	txn := store.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(bookTable, "id", id)
	if err != nil {
		return fmt.Errorf("deleting book from db: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("deleting book from db: %w", book.ErrResponseBookNotFound)
	}

	if err := txn.Delete(bookTable, raw); err != nil {
		return fmt.Errorf("deleting book from db: %w", err)
	}

	txn.Commit()
	return nil
}
