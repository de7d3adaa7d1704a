package seasonal

import (
	"fmt"
	"math"
)

var smoothingGrid = []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9}

// HoltWinters fits additive triple exponential smoothing. Smoothing
// constants come from a grid search minimising one-step-ahead SSE.
type HoltWinters struct{}

func NewHoltWinters() *HoltWinters {
	return &HoltWinters{}
}

// HoltWintersModel is the fitted state. Seasonals[0] is the seasonal index
// of the first projected day.
type HoltWintersModel struct {
	Alpha     float64   `json:"alpha"`
	Beta      float64   `json:"beta"`
	Gamma     float64   `json:"gamma"`
	Level     float64   `json:"level"`
	Trend     float64   `json:"trend"`
	Seasonals []float64 `json:"seasonals,omitempty"`
	SSE       float64   `json:"sse"`
	Observed  int       `json:"observed"`
}

func (h *HoltWinters) Fit(series []float64, opts Options) (Model, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: value at %d is not finite", ErrInvalidSeries, i)
		}
	}
	if need := opts.minLength(); len(series) < need {
		return nil, fmt.Errorf("%w: %d observations, need %d", ErrSeriesTooShort, len(series), need)
	}

	betas := []float64{0}
	if opts.trended() {
		betas = smoothingGrid
	}
	gammas := []float64{0}
	if opts.seasonal() {
		gammas = smoothingGrid
	}

	var best *HoltWintersModel
	for _, alpha := range smoothingGrid {
		for _, beta := range betas {
			for _, gamma := range gammas {
				m := smooth(series, opts, alpha, beta, gamma)
				if best == nil || m.SSE < best.SSE {
					best = m
				}
			}
		}
	}
	return best, nil
}

func smooth(series []float64, opts Options, alpha, beta, gamma float64) *HoltWintersModel {
	period := 1
	if opts.seasonal() {
		period = opts.SeasonalOrder.Period
	}
	level, trend, seasonals := initialState(series, opts, period)

	var sse float64
	for t, y := range series {
		idx := t % period
		forecast := level + trend + seasonals[idx]
		diff := y - forecast
		sse += diff * diff

		prevLevel := level
		level = alpha*(y-seasonals[idx]) + (1-alpha)*(level+trend)
		if opts.trended() {
			trend = beta*(level-prevLevel) + (1-beta)*trend
		}
		if opts.seasonal() {
			seasonals[idx] = gamma*(y-level) + (1-gamma)*seasonals[idx]
		}
	}

	m := &HoltWintersModel{
		Alpha:    alpha,
		Beta:     beta,
		Gamma:    gamma,
		Level:    level,
		Trend:    trend,
		SSE:      sse,
		Observed: len(series),
	}
	if opts.seasonal() {
		offset := len(series) % period
		m.Seasonals = make([]float64, period)
		for i := range m.Seasonals {
			m.Seasonals[i] = seasonals[(offset+i)%period]
		}
	}
	return m
}

func initialState(series []float64, opts Options, period int) (float64, float64, []float64) {
	seasonals := make([]float64, period)
	if !opts.seasonal() {
		var trend float64
		if opts.trended() {
			trend = series[1] - series[0]
		}
		return series[0] - trend, trend, seasonals
	}

	first := mean(series[:period])
	second := mean(series[period : 2*period])
	var trend float64
	if opts.trended() {
		trend = (second - first) / float64(period)
	}
	// first is the level at the middle of the first season
	center := float64(period-1) / 2
	for i := 0; i < period; i++ {
		seasonals[i] = series[i] - (first + trend*(float64(i)-center))
	}
	return first - trend*(center+1), trend, seasonals
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func (m *HoltWintersModel) Project(horizon int) []float64 {
	if horizon <= 0 {
		return nil
	}
	out := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		v := m.Level + float64(h)*m.Trend
		if n := len(m.Seasonals); n > 0 {
			v += m.Seasonals[(h-1)%n]
		}
		out[h-1] = v
	}
	return out
}
