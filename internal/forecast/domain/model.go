package domain

import "time"

// ModelSeasonal tags points produced by the seasonal model.
const ModelSeasonal = "SEASONAL"

type ForecastPoint struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID       int64     `json:"product_id" gorm:"not null;uniqueIndex:ux_forecast_points_product_date,priority:1"`
	ForecastDate    time.Time `json:"forecast_date" gorm:"not null;uniqueIndex:ux_forecast_points_product_date,priority:2"`
	PredictedDemand int       `json:"predicted_demand" gorm:"not null"`
	ModelUsed       string    `json:"model_used" gorm:"type:varchar(32);not null"`
}

func (ForecastPoint) TableName() string { return "forecast_points" }

// DemandAverage is the mean predicted demand of one product under one model.
type DemandAverage struct {
	ProductID int64
	ModelUsed string
	AvgDemand float64
}
