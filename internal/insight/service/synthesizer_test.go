package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/clock"
	forecastdomain "github.com/smallbiznis/demandcast/internal/forecast/domain"
	forecastrepo "github.com/smallbiznis/demandcast/internal/forecast/repository"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
	"github.com/smallbiznis/demandcast/internal/insight/store"
	"github.com/smallbiznis/demandcast/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type recordingGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (g *recordingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type fixture struct {
	conn  *gorm.DB
	store *store.SQLStore
	gen   *recordingGenerator
	clock *clock.FakeClock
	svc   domain.Service
}

func setup(t *testing.T) fixture {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&forecastdomain.ForecastPoint{}, &store.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := fixture{
		conn:  conn,
		store: store.NewSQLStore(conn, node),
		gen:   &recordingGenerator{reply: "Insight: steady demand.\nAction: hold stock."},
		clock: clock.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.svc = New(Params{
		DB:           conn,
		Log:          zaptest.NewLogger(t),
		Clock:        f.clock,
		ForecastRepo: forecastrepo.Provide(),
		Store:        f.store,
		Generator:    f.gen,
	})
	return f
}

func seedPoints(t *testing.T, conn *gorm.DB, productID int64, values ...int) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		p := forecastdomain.ForecastPoint{
			ID:              productID*1000 + int64(i),
			ProductID:       productID,
			ForecastDate:    start.AddDate(0, 0, i),
			PredictedDemand: v,
			ModelUsed:       forecastdomain.ModelSeasonal,
		}
		require.NoError(t, conn.Create(&p).Error)
	}
}

func TestRunRoundsAndReplaces(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	// 62 / 5 = 12.4
	seedPoints(t, f.conn, 42, 12, 12, 12, 13, 13)

	records, err := f.svc.Run(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 12, records[0].AvgPredictedDemand)
	assert.Equal(t, forecastdomain.ModelSeasonal, records[0].ModelUsed)
	assert.Equal(t, f.gen.reply, records[0].Summary)

	require.Len(t, f.gen.prompts, 1)
	assert.Contains(t, f.gen.prompts[0], "Product ID: 42\n")
	assert.Contains(t, f.gen.prompts[0], "Average daily demand: 12\n")

	f.clock.Advance(time.Hour)
	_, err = f.svc.Run(ctx)
	require.NoError(t, err)

	stored, err := f.store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(42), stored[0].ProductID)
	assert.True(t, stored[0].CreatedAt.Equal(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestRunOneRecordPerProduct(t *testing.T) {
	f := setup(t)
	seedPoints(t, f.conn, 1, 4, 5)
	seedPoints(t, f.conn, 2, 0, 0, 1)

	records, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ProductID)
	assert.Equal(t, 4, records[0].AvgPredictedDemand)
	assert.Equal(t, 0, records[1].AvgPredictedDemand)
}

func TestRunStoresEmptyCompletionVerbatim(t *testing.T) {
	f := setup(t)
	f.gen.reply = ""
	seedPoints(t, f.conn, 7, 3)

	records, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Summary)
}

func TestRunAbortsOnGeneratorError(t *testing.T) {
	f := setup(t)
	f.gen.err = errors.New("quota exceeded")
	seedPoints(t, f.conn, 1, 3)
	seedPoints(t, f.conn, 2, 3)

	_, err := f.svc.Run(context.Background())
	if !errors.Is(err, f.gen.err) {
		t.Fatalf("expected generator error, got %v", err)
	}
	assert.Len(t, f.gen.prompts, 1)

	stored, err := f.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRoundDemand(t *testing.T) {
	assert.Equal(t, 12, RoundDemand(12.4))
	assert.Equal(t, 13, RoundDemand(12.6))
	assert.Equal(t, 12, RoundDemand(12.5))
	assert.Equal(t, 14, RoundDemand(13.5))
	assert.Equal(t, 0, RoundDemand(0))
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(85123, 9)
	assert.Contains(t, prompt, "You are an inventory assistant.")
	assert.Contains(t, prompt, "Product ID: 85123")
	assert.Contains(t, prompt, "Average daily demand: 9")
	assert.Contains(t, prompt, "Insight: <text>\nAction: <text>")
}
