package numbering

import (
	"context"
	"errors"
	"strings"
)

// Kind identifies the document family a number belongs to.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

var (
	ErrUnknownKind          = errors.New("unknown_document_kind")
	ErrAuthorityUnavailable = errors.New("numbering_authority_unavailable")
)

// Prefix returns the number prefix for k.
func (k Kind) Prefix() string {
	switch k {
	case KindQuotation:
		return "QT"
	case KindInvoice:
		return "INV"
	default:
		return ""
	}
}

func (k Kind) Valid() bool {
	return k.Prefix() != ""
}

// ParseKind accepts the lower-case kind names used by the API.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Authority hands out unique document numbers.
type Authority interface {
	Next(ctx context.Context, kind Kind) (string, error)
}
