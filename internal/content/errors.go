package content

import (
	"errors"
	"fmt"
)

var (
	// ErrTitleRequired indicates a document is missing the mandatory title header.
	ErrTitleRequired = errors.New("content: title is required")
	// ErrDateRequired indicates a document is missing the mandatory date header.
	ErrDateRequired = errors.New("content: date is required")
	// ErrSlugInvalid indicates a slug could not be derived or failed validation.
	ErrSlugInvalid = errors.New("content: invalid slug")
	// ErrDuplicateSlug indicates two documents resolved to the same slug.
	ErrDuplicateSlug = errors.New("content: duplicate slug")
	// ErrFenceLint indicates a document contains invalid fenced code blocks.
	ErrFenceLint = errors.New("content: fence lint failed")
	// ErrUnknownRef indicates a document references a slug no document claims.
	ErrUnknownRef = errors.New("content: unknown reference")
)

// DocumentError wraps a validation or rendering failure with the path of the
// offending source file, so build output always names the file to fix.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError wraps err with the source path.
func NewDocumentError(path string, err error) *DocumentError {
	return &DocumentError{Path: path, Err: err}
}

// DuplicateSlugError reports the two source files that claimed the same slug.
type DuplicateSlugError struct {
	Slug  string
	Path  string
	Other string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("%s: slug %q already used by %s", e.Path, e.Slug, e.Other)
}

func (e *DuplicateSlugError) Unwrap() error {
	return ErrDuplicateSlug
}
