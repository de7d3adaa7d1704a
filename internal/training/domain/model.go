package domain

import (
	"time"

	"github.com/smallbiznis/demandcast/internal/seasonal"
)

// Observation is the total quantity of one product sold on one day.
type Observation struct {
	ProductID int64
	Date      time.Time
	Quantity  int
}

// TrainResult holds the fitted models and, separately, the products whose
// fit failed. A product appears in at most one of the two maps.
type TrainResult struct {
	Models   map[int64]seasonal.Model
	Failures map[int64]error
}
