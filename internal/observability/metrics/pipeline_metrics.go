package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/demandcast/pkg/db"
	"gorm.io/gorm"
)

const (
	StageReasonDeadlineExceeded     = "deadline_exceeded"
	StageReasonDBLockTimeout        = "db_lock_timeout"
	StageReasonSerializationFailure = "serialization_failure"
	StageReasonUniqueViolation      = "unique_violation"
	StageReasonDB                   = "db"
	StageReasonUnknown              = "unknown"
)

const (
	ResourceInvoices       = "invoices"
	ResourceInvoiceLines   = "invoice_lines"
	ResourceModels         = "models"
	ResourceForecastPoints = "forecast_points"
	ResourceInsights       = "insights"
)

// PipelineMetrics captures batch pipeline health per stage.
type PipelineMetrics struct {
	registry       *prometheus.Registry
	stageRuns      *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	stageErrors    *prometheus.CounterVec
	recordsWritten *prometheus.CounterVec
	fitFailures    prometheus.Counter
	lastSuccess    *prometheus.GaugeVec
}

var (
	pipelineMetricsOnce sync.Once
	pipelineMetrics     *PipelineMetrics
)

// Pipeline returns the singleton pipeline metrics registry.
func Pipeline() *PipelineMetrics {
	return PipelineWithConfig(Config{})
}

// PipelineWithConfig returns the singleton pipeline metrics registry using config labels.
func PipelineWithConfig(cfg Config) *PipelineMetrics {
	pipelineMetricsOnce.Do(func() {
		pipelineMetrics = newPipelineMetrics(prometheus.NewRegistry(), cfg)
	})
	return pipelineMetrics
}

// ResetPipelineMetricsForTest resets the pipeline metrics singleton for tests.
func ResetPipelineMetricsForTest() {
	pipelineMetricsOnce = sync.Once{}
	pipelineMetrics = nil
}

func newPipelineMetrics(registry *prometheus.Registry, cfg Config) *PipelineMetrics {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "demandcast"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	stageRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "demandcast_stage_runs_total",
		Help:        "Pipeline stage runs by stage.",
		ConstLabels: constLabels,
	}, []string{"stage"})
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "demandcast_stage_duration_seconds",
		Help:        "Pipeline stage wall time.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800},
		ConstLabels: constLabels,
	}, []string{"stage"})
	stageErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "demandcast_stage_errors_total",
		Help:        "Pipeline stage failures by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"stage", "reason"})
	recordsWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "demandcast_records_written_total",
		Help:        "Records committed by a stage, per resource.",
		ConstLabels: constLabels,
	}, []string{"stage", "resource"})
	fitFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "demandcast_fit_failures_total",
		Help:        "Per-entity seasonal model fits that failed and were skipped.",
		ConstLabels: constLabels,
	})
	lastSuccess := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "demandcast_stage_last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run per stage.",
		ConstLabels: constLabels,
	}, []string{"stage"})

	registry.MustRegister(stageRuns, stageDuration, stageErrors, recordsWritten, fitFailures, lastSuccess)

	return &PipelineMetrics{
		registry:       registry,
		stageRuns:      stageRuns,
		stageDuration:  stageDuration,
		stageErrors:    stageErrors,
		recordsWritten: recordsWritten,
		fitFailures:    fitFailures,
		lastSuccess:    lastSuccess,
	}
}

// Registry exposes the underlying registry for pushing.
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *PipelineMetrics) IncStageRun(stage string) {
	if m == nil {
		return
	}
	m.stageRuns.WithLabelValues(stage).Inc()
}

func (m *PipelineMetrics) ObserveStageDuration(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// IncStageError increments the stage error counter with classification.
func (m *PipelineMetrics) IncStageError(stage string, err error) {
	if m == nil || err == nil {
		return
	}
	m.stageErrors.WithLabelValues(stage, ClassifyStageReason(err)).Inc()
}

func (m *PipelineMetrics) AddRecordsWritten(stage, resource string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.recordsWritten.WithLabelValues(stage, resource).Add(float64(count))
}

func (m *PipelineMetrics) IncFitFailure() {
	if m == nil {
		return
	}
	m.fitFailures.Inc()
}

func (m *PipelineMetrics) SetLastSuccess(stage string, at time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.WithLabelValues(stage).Set(float64(at.Unix()))
}

// ClassifyStageReason maps an error to a low-cardinality reason label.
func ClassifyStageReason(err error) string {
	if err == nil {
		return StageReasonUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return StageReasonDeadlineExceeded
	}
	if hasPGCode(err, "55P03") {
		return StageReasonDBLockTimeout
	}
	if hasPGCode(err, "40001") {
		return StageReasonSerializationFailure
	}
	if db.IsDuplicateKeyErr(err) || hasPGCode(err, "23505") {
		return StageReasonUniqueViolation
	}
	if isDBError(err) {
		return StageReasonDB
	}
	return StageReasonUnknown
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

func isDBError(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if errors.Is(err, gorm.ErrInvalidDB) ||
		errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, gorm.ErrInvalidData) ||
		errors.Is(err, gorm.ErrMissingWhereClause) ||
		errors.Is(err, gorm.ErrUnsupportedDriver) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
