package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/lineitem"
	"gorm.io/gorm"
)

// FillLines completes lines that reference a catalog product with the
// product's fields. Every referenced product must exist and be active.
func FillLines(ctx context.Context, db *gorm.DB, repo Repository, inputs []lineitem.Input) ([]lineitem.Input, error) {
	ids := make([]snowflake.ID, 0, len(inputs))
	refs := make([]*snowflake.ID, len(inputs))
	for i, in := range inputs {
		id, err := lineitem.ParseProductID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if id != nil {
			refs[i] = id
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return inputs, nil
	}

	found, err := repo.FindActiveByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]Product, len(found))
	for _, p := range found {
		if p != nil {
			byID[p.ID] = *p
		}
	}

	out := make([]lineitem.Input, len(inputs))
	for i, in := range inputs {
		out[i] = in
		if refs[i] == nil {
			continue
		}
		p, ok := byID[*refs[i]]
		if !ok {
			return nil, ErrNotFound
		}
		out[i] = p.Fill(in)
	}
	return out, nil
}
