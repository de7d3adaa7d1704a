package domain

import "time"

// Invoice groups one simulated day of sales.
type Invoice struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	InvoiceDate time.Time `json:"invoice_date" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceLine struct {
	ID        int64   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	InvoiceID int64   `json:"invoice_id" gorm:"not null;index"`
	ProductID int64   `json:"product_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }
