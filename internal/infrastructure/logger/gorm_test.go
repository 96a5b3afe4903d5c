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

func query() (string, int64) { return "SELECT * FROM stores", 3 }

func TestGormLogger_Trace(t *testing.T) {
	t.Run("logs errors", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 200*time.Millisecond)

		l.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))

		require.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
	})

	t.Run("skips record not found", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 200*time.Millisecond)

		l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("warns on slow query", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, 10*time.Millisecond)

		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)

		logs := recorded.FilterMessage("Slow SQL").All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SELECT * FROM stores", logs[0].ContextMap()["sql"])
	})

	t.Run("quiet at warn level for fast queries", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn, time.Second)

		l.Trace(context.Background(), time.Now(), query, nil)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("info level logs every statement with request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		base := zap.New(core)
		l := NewGormLogger(base, gormlogger.Info, 0)

		ctx := WithRequestID(WithContext(context.Background(), base), "req-7")
		l.Trace(ctx, time.Now(), query, nil)

		logs := recorded.FilterMessage("SQL Query").All()
		require.Len(t, logs, 1)
		assert.Equal(t, "req-7", logs[0].ContextMap()["request_id"])
		assert.Equal(t, int64(3), logs[0].ContextMap()["rows"])
	})

	t.Run("silent", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info, 0).LogMode(gormlogger.Silent)

		l.Trace(context.Background(), time.Now(), query, errors.New("x"))

		assert.Equal(t, 0, recorded.Len())
	})
}

func TestGormLogger_Messages(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn, 0)

	l.Info(context.Background(), "opened %s", "db")
	l.Warn(context.Background(), "pool at %d%%", 90)
	l.Error(context.Background(), "failed: %v", "boom")

	assert.Equal(t, 0, recorded.FilterMessage("opened db").Len())
	assert.Equal(t, 1, recorded.FilterMessage("pool at 90%").Len())
	assert.Equal(t, 1, recorded.FilterMessage("failed: boom").Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
}
