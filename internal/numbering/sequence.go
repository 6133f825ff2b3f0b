package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/officecrm/internal/clock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequence is the per kind and year counter row.
type DocumentSequence struct {
	Kind      string    `gorm:"primaryKey;size:32"`
	Year      int       `gorm:"primaryKey"`
	Value     int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DocumentSequence) TableName() string { return "document_sequences" }

// SequenceAuthority allocates numbers from the document_sequences table.
type SequenceAuthority struct {
	db       *gorm.DB
	clock    clock.Clock
	template string
}

func NewSequenceAuthority(db *gorm.DB, c clock.Clock) *SequenceAuthority {
	return &SequenceAuthority{db: db, clock: c, template: DefaultTemplate}
}

func (a *SequenceAuthority) Next(ctx context.Context, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}
	now := a.clock.Now()

	var seq int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := DocumentSequence{Kind: string(kind), Year: now.Year(), Value: 1, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "kind"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      gorm.Expr("document_sequences.value + 1"),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		var current DocumentSequence
		if err := tx.
			Where("kind = ? AND year = ?", string(kind), now.Year()).
			Take(&current).Error; err != nil {
			return err
		}
		seq = current.Value
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("allocate %s sequence: %w", kind, err)
	}

	return FormatNumber(a.template, kind.Prefix(), now, seq)
}
