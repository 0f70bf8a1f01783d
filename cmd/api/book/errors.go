package book

import (
	"errors"
)

// Kind classifies the failures a caller is expected to handle.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingField
	KindInvalidRange
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindInvalidRange:
		return "invalid_range"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type ErrResponse struct {
	Kind    Kind
	Message string
}

func (e ErrResponse) Error() string {
	return e.Message
}

var ErrResponseAddNameRequired = ErrResponse{KindMissingField, "failed to add book: name required"}
var ErrResponseAddReadPageExceeds = ErrResponse{KindInvalidRange, "failed to add book: readPage may not exceed pageCount"}
var ErrResponseBookNotFound = ErrResponse{KindNotFound, "book not found"}
var ErrResponseUpdateNameRequired = ErrResponse{KindMissingField, "failed to update book: name required"}
var ErrResponseUpdateReadPageExceeds = ErrResponse{KindInvalidRange, "failed to update book: readPage may not exceed pageCount"}
var ErrResponseUpdateNotFound = ErrResponse{KindNotFound, "failed to update book: id not found"}
var ErrResponseDeleteNotFound = ErrResponse{KindNotFound, "failed to delete book: id not found"}

// ErrDuplicateID is returned by a Repository asked to store an id that is already taken.
var ErrDuplicateID = errors.New("book id already taken")

/* Returns the Kind carried by err, or KindUnknown when err is not an ErrResponse. */
func KindOf(err error) Kind {
	var errR ErrResponse
	if errors.As(err, &errR) {
		return errR.Kind
	}
	return KindUnknown
}
