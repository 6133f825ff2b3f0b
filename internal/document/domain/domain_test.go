package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderValidate(t *testing.T) {
	ok := Header{Number: "QT-25-0001", Version: 1, Date: time.Now()}
	assert.NoError(t, ok.Validate())

	missing := ok
	missing.Number = ""
	assert.ErrorIs(t, missing.Validate(), ErrMissingNumber)

	noDate := ok
	noDate.Date = time.Time{}
	assert.ErrorIs(t, noDate.Validate(), ErrMissingDate)

	badVersion := ok
	badVersion.Version = 0
	assert.ErrorIs(t, badVersion.Validate(), ErrInvalidVersion)
}

func TestRequestDataHeader(t *testing.T) {
	h, err := RequestData{
		Number:  " INV-25-0003 ",
		Date:    "2025-03-14",
		DueDate: "2025-03-29T00:00:00Z",
	}.Header()
	require.NoError(t, err)

	assert.Equal(t, "INV-25-0003", h.Number)
	assert.Equal(t, 1, h.Version)
	assert.Equal(t, 14, h.Date.Day())
	require.NotNil(t, h.ValidUntil)
	assert.Equal(t, 29, h.ValidUntil.Day())

	_, err = RequestData{Date: "14/03/2025"}.Header()
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Quotation")
	require.NoError(t, err)
	assert.Equal(t, KindQuotation, k)

	_, err = ParseKind("receipt")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRequestParse(t *testing.T) {
	kind, h, err := Request{
		Type: "Invoice",
		Data: RequestData{Number: "INV-25-0009", Date: "2025-05-01", DueDate: "2025-05-15"},
	}.Parse()
	require.NoError(t, err)
	assert.Equal(t, KindInvoice, kind)
	assert.Equal(t, "INV-25-0009", h.Number)
	require.NotNil(t, h.ValidUntil)
	assert.Equal(t, 15, h.ValidUntil.Day())

	_, _, err = Request{Type: "receipt"}.Parse()
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, _, err = Request{Type: "quotation", Data: RequestData{Date: "05/01/2025"}}.Parse()
	assert.ErrorIs(t, err, ErrInvalidDate)
}
