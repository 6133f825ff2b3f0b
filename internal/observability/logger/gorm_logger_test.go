package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLoggerTraceLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn, 100*time.Millisecond)
	ctx := WithRequestID(context.Background(), "req-7")

	l.Trace(ctx, time.Now(), statement("SELECT id FROM leads WHERE id = ?", 1), nil)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now(), statement("SELECT id FROM leads WHERE id = ?", 0), gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now().Add(-time.Second), statement(`UPDATE products SET is_active = ? WHERE id = ?`, 1), nil)
	l.Trace(ctx, time.Now(), statement(`INSERT INTO followups (id, title) VALUES (?, ?)`, -1), errors.New("boom"))
	require.Equal(t, 2, logs.Len())

	slow := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, slow.Level)
	assert.Equal(t, "gorm", slow.LoggerName)
	fields := slow.ContextMap()
	assert.Equal(t, "UPDATE", fields["operation"])
	assert.Equal(t, "products", fields["table"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, int64(1), fields["rows"])

	failed := logs.All()[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.Equal(t, "followups", failed.ContextMap()["table"])
	assert.Equal(t, "boom", failed.ContextMap()["error"])
	assert.NotContains(t, failed.ContextMap(), "rows")
}

func TestGormLoggerSilentAndInfo(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn, 0)

	l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), statement("DELETE FROM payments", 1), errors.New("x"))
	l.Info(context.Background(), "ignored")
	assert.Zero(t, logs.Len())

	verbose := l.LogMode(gormlogger.Info)
	verbose.Info(context.Background(), "migrating", "leads")
	verbose.Trace(context.Background(), time.Now(), statement("DELETE FROM payments WHERE id = ?", 1), nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "migrating", logs.All()[0].Message)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[1].Level)
	assert.Equal(t, "DELETE", logs.All()[1].ContextMap()["operation"])
}

func TestGormLoggerDropsParams(t *testing.T) {
	sql, params := NewGormLogger(nil, gormlogger.Warn, 0).ParamsFilter(context.Background(), "SELECT 1", "secret")
	assert.Equal(t, "SELECT 1", sql)
	assert.Nil(t, params)
}
