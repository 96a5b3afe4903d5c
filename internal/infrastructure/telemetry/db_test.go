package telemetry_test

import (
	"testing"

	"github.com/freshline/backend/internal/infrastructure/config"
	"github.com/freshline/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestInstrumentDB_PoolGauges(t *testing.T) {
	db := openSQLite(t)
	reader, provider := newManualMeter(t)

	err := telemetry.InstrumentDB(db, config.TelemetryConfig{}, provider.Meter("test"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Exec("SELECT 1").Error)

	data := collect(t, reader)
	open, ok := data["db.client.connections.open"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, open.DataPoints, 1)
	assert.GreaterOrEqual(t, open.DataPoints[0].Value, int64(1))
	assert.Contains(t, data, "db.client.connections.in_use")
	assert.Contains(t, data, "db.client.connections.idle")
	assert.Contains(t, data, "db.client.connections.wait_count")
}

func TestInstrumentDB_Tracing(t *testing.T) {
	db := openSQLite(t)

	cfg := config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}
	require.NoError(t, telemetry.InstrumentDB(db, cfg, nil, nil))

	_, registered := db.Config.Plugins["otelgorm"]
	assert.True(t, registered)

	// Queries still run through the plugin callbacks
	assert.NoError(t, db.Exec("SELECT 1").Error)
}

func TestInstrumentDB_TracingOff(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, telemetry.InstrumentDB(db, config.TelemetryConfig{Enabled: true}, nil, nil))
	_, registered := db.Config.Plugins["otelgorm"]
	assert.False(t, registered)
}
