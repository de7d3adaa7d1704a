package domain

import "time"

// Product is the system product registry. StockCode is the identifier the
// demand catalog refers to.
type Product struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	StockCode string    `json:"stock_code" gorm:"type:varchar(64);not null;uniqueIndex:ux_products_stock_code"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }

// DemandProfile is the demand configuration of one catalog stock code.
type DemandProfile struct {
	StockCode       string  `json:"stock_code" gorm:"primaryKey;type:varchar(64)"`
	BaseDailyDemand *int    `json:"base_daily_demand"`
	MinPrice        float64 `json:"min_price" gorm:"not null"`
	MaxPrice        float64 `json:"max_price" gorm:"not null"`
	Position        int     `json:"position" gorm:"not null;default:0"`
}

func (DemandProfile) TableName() string { return "demand_profiles" }

// Entity is a catalog entry resolved to its system product id.
type Entity struct {
	ProductID       int64
	StockCode       string
	BaseDailyDemand *int
	MinPrice        float64
	MaxPrice        float64
}

// DefaultBaseDemand is used when an entity has no (or zero) base demand.
const DefaultBaseDemand = 5

// BaseDemand returns the entity's base daily demand, falling back to DefaultBaseDemand.
func (e Entity) BaseDemand() int {
	if e.BaseDailyDemand == nil || *e.BaseDailyDemand == 0 {
		return DefaultBaseDemand
	}
	return *e.BaseDailyDemand
}
