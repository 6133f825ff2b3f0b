package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	name     string
	category string
	amount   float64
}

func byCategory(r row) string { return r.category }

func TestGroupAndOrderPreferredFirst(t *testing.T) {
	items := []row{
		{name: "cable", category: "ACCESSORIES"},
		{name: "speaker", category: "SOUND SYSTEM"},
		{name: "widget", category: "UNKNOWN"},
		{name: "amp", category: "ELECTRONICS"},
	}

	groups := GroupAndOrder(items, byCategory)
	assert.Equal(t, []string{"SOUND SYSTEM", "ELECTRONICS", "ACCESSORIES", "UNKNOWN"}, Names(groups))
}

func TestGroupAndOrderUnknownKeepFirstSeenOrder(t *testing.T) {
	items := []row{
		{name: "a", category: "ZETA"},
		{name: "b"},
		{name: "c", category: "ALPHA"},
		{name: "d", category: "DISPLAY SYSTEM"},
		{name: "e", category: "  "},
	}

	groups := GroupAndOrder(items, byCategory)
	require.Equal(t, []string{"DISPLAY SYSTEM", "ZETA", Uncategorized, "ALPHA"}, Names(groups))
	assert.Equal(t, "b", groups[2].Items[0].name)
	assert.Equal(t, "e", groups[2].Items[1].name)
}

func TestGroupAndOrderConservesItems(t *testing.T) {
	items := []row{
		{name: "1", category: "SOUND SYSTEM", amount: 1180},
		{name: "2", category: "ACCESSORIES", amount: 99.5},
		{name: "3", category: "SOUND SYSTEM", amount: 2360},
		{name: "4", amount: 10},
		{name: "5", category: "ELECTRONICS", amount: 0.5},
	}

	groups := GroupAndOrder(items, byCategory)

	var count int
	var total float64
	for _, g := range groups {
		count += len(g.Items)
		for _, it := range g.Items {
			total += it.amount
		}
	}
	assert.Equal(t, len(items), count)
	assert.InDelta(t, 3650.0, total, 0.001)

	sound := groups[0]
	require.Equal(t, "SOUND SYSTEM", sound.Name)
	assert.Equal(t, "1", sound.Items[0].name)
	assert.Equal(t, "3", sound.Items[1].name)
}

func TestGroupAndOrderEmpty(t *testing.T) {
	assert.Empty(t, GroupAndOrder([]row{}, byCategory))
}
