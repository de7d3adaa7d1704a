package db

import (
	"testing"

	"github.com/smallbiznis/demandcast/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectSelectsDriver(t *testing.T) {
	tests := []struct {
		dbType string
		want   string
	}{
		{dbType: "postgres", want: "postgres"},
		{dbType: " MySQL ", want: "mysql"},
		{dbType: "sqlite", want: "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			d, err := Dialect(config.Config{DBType: tt.dbType, DBPath: "demandcast.db"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestDialectRejectsUnknownAndMissingPath(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)

	_, err = Dialect(config.Config{DBType: DialectSQLite})
	assert.Error(t, err)
}
