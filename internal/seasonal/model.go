package seasonal

import (
	"errors"
	"fmt"
)

// Model is a fitted per-entity demand model.
type Model interface {
	// Project returns horizon values for the days following the fitted series.
	Project(horizon int) []float64
}

// Fitter fits a Model to a regular daily series.
type Fitter interface {
	Fit(series []float64, opts Options) (Model, error)
}

// Order is the non-seasonal (p, d, q) order. Only D is interpreted: D > 0
// fits a trend component.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// SeasonalOrder is the seasonal (P, D, Q, s) order. D > 0 fits a seasonal
// component of length Period.
type SeasonalOrder struct {
	P      int `json:"p"`
	D      int `json:"d"`
	Q      int `json:"q"`
	Period int `json:"period"`
}

type Options struct {
	Order         Order         `json:"order"`
	SeasonalOrder SeasonalOrder `json:"seasonal_order"`
}

// DefaultOptions is the weekly (1,1,1)(1,1,1,7) configuration.
func DefaultOptions() Options {
	return Options{
		Order:         Order{P: 1, D: 1, Q: 1},
		SeasonalOrder: SeasonalOrder{P: 1, D: 1, Q: 1, Period: 7},
	}
}

var (
	ErrSeriesTooShort   = errors.New("series_too_short")
	ErrInvalidSeries    = errors.New("invalid_series")
	ErrInvalidOptions   = errors.New("invalid_options")
	ErrUnsupportedModel = errors.New("unsupported_model")
	ErrArtifactNotFound = errors.New("artifact_not_found")
)

func (o Options) Validate() error {
	if o.Order.P < 0 || o.Order.D < 0 || o.Order.Q < 0 {
		return fmt.Errorf("%w: negative order", ErrInvalidOptions)
	}
	if o.SeasonalOrder.P < 0 || o.SeasonalOrder.D < 0 || o.SeasonalOrder.Q < 0 {
		return fmt.Errorf("%w: negative seasonal order", ErrInvalidOptions)
	}
	if o.seasonal() && o.SeasonalOrder.Period < 2 {
		return fmt.Errorf("%w: seasonal period %d", ErrInvalidOptions, o.SeasonalOrder.Period)
	}
	return nil
}

func (o Options) trended() bool  { return o.Order.D > 0 }
func (o Options) seasonal() bool { return o.SeasonalOrder.D > 0 }

// minLength is the shortest series a fit accepts.
func (o Options) minLength() int {
	switch {
	case o.seasonal():
		return 2 * o.SeasonalOrder.Period
	case o.trended():
		return 2
	default:
		return 1
	}
}
