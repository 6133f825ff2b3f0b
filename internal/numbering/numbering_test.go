package numbering

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/officecrm/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fallbackRe = regexp.MustCompile(`^(QT|INV)-\d{2}-\d{4}$`)

func fixedClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DocumentSequence{}))
	return db
}

type failingAuthority struct{ calls int }

func (a *failingAuthority) Next(context.Context, Kind) (string, error) {
	a.calls++
	return "", ErrAuthorityUnavailable
}

type stubCounter struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (s *stubCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if s.err != nil {
		return redis.NewIntResult(0, s.err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[string]int64{}
	}
	s.values[key]++
	return redis.NewIntResult(s.values[key], nil)
}

func TestFormatNumber(t *testing.T) {
	issued := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	got, err := FormatNumber(DefaultTemplate, "QT", issued, 7)
	require.NoError(t, err)
	assert.Equal(t, "QT-25-0007", got)

	got, err = FormatNumber("{PREFIX}/{YYYY}{MM}{DD}/{SEQ}", "INV", issued, 42)
	require.NoError(t, err)
	assert.Equal(t, "INV/20250102/42", got)

	_, err = FormatNumber("{PREFIX}-{BAD}", "QT", issued, 1)
	assert.Error(t, err)

	_, err = FormatNumber("", "QT", issued, 1)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Invoice ")
	require.NoError(t, err)
	assert.Equal(t, KindInvoice, k)
	assert.Equal(t, "INV", k.Prefix())

	_, err = ParseKind("receipt")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGeneratorFallbackFormat(t *testing.T) {
	auth := &failingAuthority{}
	g := NewGenerator(Params{Authority: auth, Clock: fixedClock()})

	for _, kind := range []Kind{KindQuotation, KindInvoice} {
		number, err := g.Generate(context.Background(), kind)
		require.NoError(t, err)
		assert.Regexp(t, fallbackRe, number)
		assert.Contains(t, number, kind.Prefix()+"-25-")
	}
	assert.Equal(t, 2, auth.calls)
}

func TestGeneratorFallbackDoesNotRepeat(t *testing.T) {
	g := NewGenerator(Params{Clock: fixedClock()})

	seen := make(map[string]struct{}, fallbackSpace)
	for i := 0; i < fallbackSpace; i++ {
		number, err := g.Generate(context.Background(), KindQuotation)
		require.NoError(t, err)
		_, dup := seen[number]
		require.False(t, dup, "duplicate %s at %d", number, i)
		seen[number] = struct{}{}
	}
}

func TestGeneratorRejectsUnknownKind(t *testing.T) {
	g := NewGenerator(Params{Clock: fixedClock()})
	_, err := g.Generate(context.Background(), Kind("receipt"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSequenceAuthorityIncrementsPerKind(t *testing.T) {
	db := setupTestDB(t)
	auth := NewSequenceAuthority(db, fixedClock())
	ctx := context.Background()

	first, err := auth.Next(ctx, KindQuotation)
	require.NoError(t, err)
	second, err := auth.Next(ctx, KindQuotation)
	require.NoError(t, err)
	inv, err := auth.Next(ctx, KindInvoice)
	require.NoError(t, err)

	assert.Equal(t, "QT-25-0001", first)
	assert.Equal(t, "QT-25-0002", second)
	assert.Equal(t, "INV-25-0001", inv)
}

func TestGeneratorUsesAuthority(t *testing.T) {
	c := fixedClock()
	g := NewGenerator(Params{Authority: NewRedisAuthority(&stubCounter{}, c), Clock: c})

	number, err := g.Generate(context.Background(), KindInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-25-0001", number)
}

func TestRedisAuthorityErrorFallsBack(t *testing.T) {
	c := fixedClock()
	counter := &stubCounter{err: errors.New("connection refused")}
	g := NewGenerator(Params{Authority: NewRedisAuthority(counter, c), Clock: c})

	number, err := g.Generate(context.Background(), KindQuotation)
	require.NoError(t, err)
	assert.Regexp(t, fallbackRe, number)
}

func TestRedisAuthorityKeys(t *testing.T) {
	counter := &stubCounter{}
	auth := NewRedisAuthority(counter, fixedClock())

	_, err := auth.Next(context.Background(), KindQuotation)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.values["officecrm:seq:quotation:25"])
}
