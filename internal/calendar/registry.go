package calendar

import (
	"fmt"
	"strings"
	"time"

	catalogdomain "github.com/smallbiznis/demandcast/internal/catalog/domain"
	"github.com/smallbiznis/demandcast/internal/config"
)

// Registry answers holiday and promotion lookups for the generator.
// It is immutable once built.
type Registry struct {
	holidays   map[time.Time]Event
	events     []Event
	promotions map[int64][]PromotionWindow
	windows    []PromotionWindow
}

// NewRegistry indexes events by day and windows by product. On duplicate
// holiday dates the first event wins; overlapping windows resolve to the
// first one in slice order.
func NewRegistry(events []Event, windows []PromotionWindow) *Registry {
	r := &Registry{
		holidays:   make(map[time.Time]Event, len(events)),
		promotions: make(map[int64][]PromotionWindow),
	}
	for _, e := range events {
		e.Date = Day(e.Date)
		if _, exists := r.holidays[e.Date]; exists {
			continue
		}
		r.holidays[e.Date] = e
		r.events = append(r.events, e)
	}
	for i, w := range windows {
		w.Start, w.End = Day(w.Start), Day(w.End)
		w.Position = i
		r.promotions[w.ProductID] = append(r.promotions[w.ProductID], w)
		r.windows = append(r.windows, w)
	}
	return r
}

// Holiday returns the event registered for day, if any.
func (r *Registry) Holiday(day time.Time) (Event, bool) {
	if r == nil {
		return Event{}, false
	}
	e, ok := r.holidays[Day(day)]
	return e, ok
}

// Promotion returns the first window for productID covering day, if any.
func (r *Registry) Promotion(productID int64, day time.Time) (PromotionWindow, bool) {
	if r == nil {
		return PromotionWindow{}, false
	}
	for _, w := range r.promotions[productID] {
		if w.Covers(day) {
			return w, true
		}
	}
	return PromotionWindow{}, false
}

// HolidayMultiplier is 1.0 when day is not a holiday.
func (r *Registry) HolidayMultiplier(day time.Time) float64 {
	if e, ok := r.Holiday(day); ok {
		return e.Multiplier
	}
	return 1.0
}

// PromotionMultiplier is 1.0 when no window covers day.
func (r *Registry) PromotionMultiplier(productID int64, day time.Time) float64 {
	if w, ok := r.Promotion(productID, day); ok {
		return w.Multiplier
	}
	return 1.0
}

// Events returns the de-duplicated events in insertion order.
func (r *Registry) Events() []Event {
	if r == nil {
		return nil
	}
	return append([]Event(nil), r.events...)
}

// Windows returns every window in insertion order.
func (r *Registry) Windows() []PromotionWindow {
	if r == nil {
		return nil
	}
	return append([]PromotionWindow(nil), r.windows...)
}

// FromConfig builds a registry from catalog configuration. A promotion with
// no stock codes applies to every entity; stock codes outside the loaded
// catalog are ignored.
func FromConfig(cfg config.CatalogConfig, entities []catalogdomain.Entity) (*Registry, error) {
	events := make([]Event, 0, len(cfg.Holidays))
	for _, h := range cfg.Holidays {
		day, err := config.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h.Name, err)
		}
		events = append(events, Event{Date: day, Label: h.Name, Multiplier: h.Multiplier})
	}

	byCode := make(map[string]int64, len(entities))
	for _, e := range entities {
		byCode[e.StockCode] = e.ProductID
	}

	var windows []PromotionWindow
	for i, p := range cfg.Promotions {
		start, err := config.ParseDate(p.Start)
		if err != nil {
			return nil, fmt.Errorf("promotion %d start: %w", i, err)
		}
		end, err := config.ParseDate(p.End)
		if err != nil {
			return nil, fmt.Errorf("promotion %d end: %w", i, err)
		}

		var targets []int64
		if len(p.StockCodes) == 0 {
			for _, e := range entities {
				targets = append(targets, e.ProductID)
			}
		} else {
			for _, code := range p.StockCodes {
				if id, ok := byCode[strings.TrimSpace(code)]; ok {
					targets = append(targets, id)
				}
			}
		}
		for _, productID := range targets {
			windows = append(windows, PromotionWindow{
				ProductID:  productID,
				Start:      start,
				End:        end,
				Multiplier: p.Multiplier,
			})
		}
	}

	return NewRegistry(events, windows), nil
}
