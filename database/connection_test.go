package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithConnectTimeout(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "key value",
			dsn:  "host=localhost user=postgres dbname=nco_search",
			want: "host=localhost user=postgres dbname=nco_search connect_timeout=5",
		},
		{
			name: "url without query",
			dsn:  "postgres://u:p@db:5432/nco",
			want: "postgres://u:p@db:5432/nco?connect_timeout=5",
		},
		{
			name: "url with query",
			dsn:  "postgresql://u:p@db/nco?sslmode=disable",
			want: "postgresql://u:p@db/nco?sslmode=disable&connect_timeout=5",
		},
		{
			name: "already set",
			dsn:  "host=db connect_timeout=2",
			want: "host=db connect_timeout=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withConnectTimeout(tt.dsn, 5*time.Second))
		})
	}
}

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", DSN: "file:conntest?mode=memory&cache=shared", MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("otps"))
	assert.True(t, db.Migrator().HasTable("synonyms"))
	assert.True(t, db.Migrator().HasTable("audit_entries"))
	assert.True(t, db.Migrator().HasTable("saved_searches"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.PingContext(context.Background()))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
