package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, f *Followup) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Followup, error)
	List(ctx context.Context, db *gorm.DB, filter ListFollowupFilter) ([]*Followup, error)
	// Transition moves a follow-up out of from; it reports false when the
	// row was not in that status.
	Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status, completedAt *time.Time, now time.Time) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	CountPending(ctx context.Context, db *gorm.DB, dueFrom, dueBefore *time.Time) (int64, error)
}
