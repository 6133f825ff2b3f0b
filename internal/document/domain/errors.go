package domain

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown_document_kind")
	ErrMissingNumber  = errors.New("missing_document_number")
	ErrMissingDate    = errors.New("missing_document_date")
	ErrInvalidVersion = errors.New("invalid_document_version")
	ErrEmptyItems     = errors.New("empty_line_items")
	ErrInvalidDate    = errors.New("invalid_date")
)
