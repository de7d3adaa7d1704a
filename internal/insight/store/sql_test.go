package store

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
	"github.com/smallbiznis/demandcast/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Document{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewSQLStore(conn, node)
}

func TestSQLStoreRoundTrip(t *testing.T) {
	s := newSQLStore(t)
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.InsertOne(ctx, domain.InsightRecord{ProductID: 9, AvgPredictedDemand: 3, ModelUsed: "SEASONAL", Summary: "Insight: low\nAction: hold", CreatedAt: created}))
	require.NoError(t, s.InsertOne(ctx, domain.InsightRecord{ProductID: 2, AvgPredictedDemand: 12, ModelUsed: "SEASONAL", Summary: "", CreatedAt: created}))

	records, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ProductID)
	assert.Equal(t, "", records[0].Summary)
	assert.Equal(t, "Insight: low\nAction: hold", records[1].Summary)
	assert.True(t, created.Equal(records[1].CreatedAt))

	deleted, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	records, err = s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
