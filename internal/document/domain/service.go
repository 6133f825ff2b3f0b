package domain

import "context"

// Service builds printable documents from already-resolved records. It
// never writes to the record store.
type Service interface {
	BuildQuotationDocument(ctx context.Context, header Header, customer Customer, items []LineItem) (*Artifact, error)
	BuildInvoiceDocument(ctx context.Context, header Header, customer Customer, items []LineItem) (*Artifact, error)
}

// Build dispatches to the builder for kind.
func Build(ctx context.Context, svc Service, kind Kind, header Header, customer Customer, items []LineItem) (*Artifact, error) {
	switch kind {
	case KindQuotation:
		return svc.BuildQuotationDocument(ctx, header, customer, items)
	case KindInvoice:
		return svc.BuildInvoiceDocument(ctx, header, customer, items)
	default:
		return nil, ErrUnknownKind
	}
}

// Validate checks the header fields every document needs.
func (h Header) Validate() error {
	if h.Number == "" {
		return ErrMissingNumber
	}
	if h.Date.IsZero() {
		return ErrMissingDate
	}
	if h.Version < 1 {
		return ErrInvalidVersion
	}
	return nil
}
