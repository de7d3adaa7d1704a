package calendar

import "time"

// Event is a holiday with a global demand multiplier.
type Event struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Date       time.Time `json:"date" gorm:"column:event_date;not null;index"`
	Label      string    `json:"label" gorm:"type:text;not null"`
	Multiplier float64   `json:"multiplier" gorm:"column:demand_multiplier;not null"`
}

func (Event) TableName() string { return "calendar_events" }

// PromotionWindow boosts one product's demand over [Start, End], both inclusive.
type PromotionWindow struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID  int64     `json:"product_id" gorm:"not null;index"`
	Start      time.Time `json:"start_date" gorm:"column:start_date;not null"`
	End        time.Time `json:"end_date" gorm:"column:end_date;not null"`
	Multiplier float64   `json:"multiplier" gorm:"column:promo_multiplier;not null"`
	Position   int       `json:"position" gorm:"not null;default:0"`
}

func (PromotionWindow) TableName() string { return "promotions" }

// Covers reports whether day falls inside the window.
func (w PromotionWindow) Covers(day time.Time) bool {
	day = Day(day)
	return !day.Before(Day(w.Start)) && !day.After(Day(w.End))
}
