package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallbiznis/demandcast/internal/config"
	salesdomain "github.com/smallbiznis/demandcast/internal/sales/domain"
	"github.com/smallbiznis/demandcast/internal/seasonal"
	"github.com/smallbiznis/demandcast/internal/training/domain"
	"github.com/smallbiznis/demandcast/internal/training/repository"
	"github.com/smallbiznis/demandcast/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var errFit = errors.New("fit exploded")

type constModel float64

func (m constModel) Project(h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		out[i] = float64(m)
	}
	return out
}

// stubFitter fails for the listed products, identified by their first value.
type stubFitter struct {
	failFirst map[float64]bool
	calls     int
}

func (f *stubFitter) Fit(series []float64, _ seasonal.Options) (seasonal.Model, error) {
	f.calls++
	if f.failFirst[series[0]] {
		return nil, errFit
	}
	return constModel(series[0]), nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTrainer(t *testing.T, conn *gorm.DB, fitter seasonal.Fitter) (domain.Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seasonal.bin")
	svc := New(Params{
		DB:      conn,
		Log:     zaptest.NewLogger(t),
		Config:  config.Config{ModelArtifactPath: path},
		Repo:    repository.Provide(),
		Fitter:  fitter,
		Options: seasonal.DefaultOptions(),
	})
	return svc, path
}

func setupHistoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&salesdomain.Invoice{}, &salesdomain.InvoiceLine{}))
	return conn
}

func TestReshapeZeroFillsAndSums(t *testing.T) {
	history := []domain.Observation{
		{ProductID: 1, Date: day(2024, 1, 1), Quantity: 3},
		{ProductID: 1, Date: day(2024, 1, 1).Add(5 * time.Hour), Quantity: 2},
		{ProductID: 1, Date: day(2024, 1, 4), Quantity: 7},
		{ProductID: 2, Date: day(2024, 1, 2), Quantity: 1},
		{ProductID: 2, Date: day(2024, 2, 1), Quantity: 99},
	}

	series := Reshape(history, day(2024, 1, 1), day(2024, 1, 5))
	require.Len(t, series, 2)
	assert.Equal(t, []float64{5, 0, 0, 7, 0}, series[1])
	assert.Equal(t, []float64{0, 1, 0, 0, 0}, series[2])

	assert.Empty(t, Reshape(history, day(2024, 1, 5), day(2024, 1, 1)))
}

func TestTrainIsolatesFailures(t *testing.T) {
	fitter := &stubFitter{failFirst: map[float64]bool{2: true}}
	svc, _ := newTrainer(t, nil, fitter)

	history := []domain.Observation{
		{ProductID: 10, Date: day(2024, 1, 1), Quantity: 1},
		{ProductID: 20, Date: day(2024, 1, 1), Quantity: 2},
		{ProductID: 30, Date: day(2024, 1, 1), Quantity: 3},
	}
	result := svc.Train(context.Background(), history, day(2024, 1, 1), day(2024, 1, 3))

	assert.Equal(t, 3, fitter.calls)
	assert.Len(t, result.Models, 2)
	assert.Contains(t, result.Models, int64(10))
	assert.Contains(t, result.Models, int64(30))
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[20], errFit)
	assert.NotContains(t, result.Models, int64(20))
}

func seedHistory(t *testing.T, conn *gorm.DB, days int, lines func(d int) []salesdomain.InvoiceLine) {
	t.Helper()
	var lineID int64 = 1000
	for d := 0; d < days; d++ {
		inv := salesdomain.Invoice{ID: int64(d + 1), InvoiceDate: day(2024, 1, 1).AddDate(0, 0, d), CreatedAt: day(2026, 1, 1)}
		require.NoError(t, conn.Create(&inv).Error)
		for _, l := range lines(d) {
			lineID++
			l.ID = lineID
			l.InvoiceID = inv.ID
			require.NoError(t, conn.Create(&l).Error)
		}
	}
}

func TestRunPersistsArtifact(t *testing.T) {
	conn := setupHistoryDB(t)
	weekly := []int{10, 9, 11, 10, 12, 15, 16}
	seedHistory(t, conn, 28, func(d int) []salesdomain.InvoiceLine {
		lines := []salesdomain.InvoiceLine{{ProductID: 1, Quantity: weekly[d%7], UnitPrice: 1}}
		if d == 3 {
			// a second line for the same product on the same invoice
			lines = append(lines, salesdomain.InvoiceLine{ProductID: 1, Quantity: 0, UnitPrice: 1})
		}
		if d%2 == 0 {
			lines = append(lines, salesdomain.InvoiceLine{ProductID: 2, Quantity: 4, UnitPrice: 2})
		}
		return lines
	})

	svc, path := newTrainer(t, conn, seasonal.NewHoltWinters())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Models, 2)
	assert.Empty(t, result.Failures)

	loaded, err := seasonal.LoadArtifact(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	projected := loaded[1].Project(7)
	for i, v := range projected {
		assert.InDelta(t, float64(weekly[i]), v, 0.5, "day %d", i)
	}
}

func TestRunNoHistory(t *testing.T) {
	conn := setupHistoryDB(t)
	svc, path := newTrainer(t, conn, seasonal.NewHoltWinters())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	_, err = seasonal.LoadArtifact(path)
	assert.ErrorIs(t, err, seasonal.ErrArtifactNotFound)
}

func TestRunAllFitsFail(t *testing.T) {
	conn := setupHistoryDB(t)
	// 5 days cannot hold two weekly seasons
	seedHistory(t, conn, 5, func(int) []salesdomain.InvoiceLine {
		return []salesdomain.InvoiceLine{{ProductID: 1, Quantity: 3, UnitPrice: 1}}
	})

	svc, path := newTrainer(t, conn, seasonal.NewHoltWinters())
	result, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoModels)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[1], seasonal.ErrSeriesTooShort)

	_, err = seasonal.LoadArtifact(path)
	assert.ErrorIs(t, err, seasonal.ErrArtifactNotFound)
}
