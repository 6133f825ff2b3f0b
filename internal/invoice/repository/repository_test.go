package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/invoice/domain"
	"github.com/smallbiznis/officecrm/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBalanceRejectsStalePaidAmount(t *testing.T) {
	db := dbtest.Open(t, &domain.Invoice{})
	ctx := context.Background()
	r := Provide()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	inv := domain.Invoice{
		ID:            snowflake.ID(10),
		InvoiceNumber: "INV-25-0001",
		LeadID:        snowflake.ID(1),
		InvoiceDate:   now,
		Status:        finance.InvoiceStatusSent,
		TotalAmount:   1000,
		BalanceAmount: 1000,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, r.Insert(ctx, db, &inv))

	next := finance.ApplyPayment(inv.Balance(), 400)
	require.NoError(t, r.UpdateBalance(ctx, db, inv.ID, 0, next, now))

	// A writer that read the invoice before the first payment loses.
	stale := finance.ApplyPayment(inv.Balance(), 300)
	assert.ErrorIs(t, r.UpdateBalance(ctx, db, inv.ID, 0, stale, now), domain.ErrConcurrentUpdate)

	got, err := r.FindByID(ctx, db, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 400.0, got.PaidAmount)
	assert.Equal(t, 600.0, got.BalanceAmount)
	assert.Equal(t, finance.InvoiceStatusPartial, got.Status)

	missing, err := r.FindByID(ctx, db, snowflake.ID(99))
	require.NoError(t, err)
	assert.Nil(t, missing)
}
