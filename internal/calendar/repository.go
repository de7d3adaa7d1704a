package calendar

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	DeleteAll(ctx context.Context, db *gorm.DB) error
	InsertEvents(ctx context.Context, db *gorm.DB, events []Event) error
	InsertWindows(ctx context.Context, db *gorm.DB, windows []PromotionWindow) error
	ListEvents(ctx context.Context, db *gorm.DB) ([]Event, error)
	ListWindows(ctx context.Context, db *gorm.DB) ([]PromotionWindow, error)
}

type repo struct{}

func ProvideRepository() Repository {
	return &repo{}
}

func (r *repo) DeleteAll(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(`DELETE FROM promotions`).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM calendar_events`).Error
}

func (r *repo) InsertEvents(ctx context.Context, db *gorm.DB, events []Event) error {
	for _, e := range events {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO calendar_events (id, event_date, label, demand_multiplier) VALUES (?, ?, ?, ?)`,
			e.ID,
			e.Date,
			e.Label,
			e.Multiplier,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) InsertWindows(ctx context.Context, db *gorm.DB, windows []PromotionWindow) error {
	for _, w := range windows {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO promotions (id, product_id, start_date, end_date, promo_multiplier, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			w.ID,
			w.ProductID,
			w.Start,
			w.End,
			w.Multiplier,
			w.Position,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ListEvents(ctx context.Context, db *gorm.DB) ([]Event, error) {
	var items []Event
	if err := db.WithContext(ctx).Order("event_date ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListWindows(ctx context.Context, db *gorm.DB) ([]PromotionWindow, error) {
	var items []PromotionWindow
	if err := db.WithContext(ctx).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
