// Package packing builds packing checklists from trip parameters using a
// declarative rule table.
package packing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownTripType = errors.New("unknown trip type")
	ErrUnknownActivity = errors.New("unknown activity")
	ErrUnknownPack     = errors.New("unknown packing preference")
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateOrder       = errors.New("end date before start date")
)

const dateLayout = "2006-01-02"

// Request is the set of trip parameters a list is generated from.
// TempC is nil when no weather snapshot was supplied.
type Request struct {
	TripType   string   `json:"trip_type"`
	Activities []string `json:"activities"`
	Pack       string   `json:"packing_pref"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	TempC      *float64 `json:"temp_c,omitempty"`
}

type Options struct {
	TripTypes  []string `json:"types"`
	Activities []string `json:"activities"`
	Packs      []string `json:"packs"`
}

type Engine struct {
	rules *Rules
}

func NewEngine(rules *Rules) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

func (e *Engine) Options() Options {
	opts := Options{
		TripTypes:  names(e.rules.TripTypes),
		Activities: names(e.rules.Activities),
		Packs:      make([]string, len(e.rules.Packs)),
	}
	for i, p := range e.rules.Packs {
		opts.Packs[i] = p.Name
	}
	return opts
}

// Validate reports the first problem with req. An empty trip type or pack is valid.
func (e *Engine) Validate(req Request) error {
	if req.TripType != "" && findNamed(e.rules.TripTypes, req.TripType) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTripType, req.TripType)
	}
	for _, a := range req.Activities {
		if findNamed(e.rules.Activities, a) == nil {
			return fmt.Errorf("%w: %q", ErrUnknownActivity, a)
		}
	}
	if req.Pack != "" && e.findPack(req.Pack) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPack, req.Pack)
	}

	var start, end time.Time
	var err error
	if req.StartDate != "" {
		if start, err = time.Parse(dateLayout, req.StartDate); err != nil {
			return fmt.Errorf("%w: start date %q", ErrInvalidDate, req.StartDate)
		}
	}
	if req.EndDate != "" {
		if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
			return fmt.Errorf("%w: end date %q", ErrInvalidDate, req.EndDate)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return ErrDateOrder
	}
	return nil
}

// Generate builds the checklist for req. It never fails: unknown values
// contribute no items and the base falls back to the default items.
// The result holds no duplicate labels.
func (e *Engine) Generate(req Request) []string {
	var items []string

	if tt := findNamed(e.rules.TripTypes, req.TripType); tt != nil && len(tt.Items) > 0 {
		items = append(items, tt.Items...)
	} else {
		items = append(items, e.rules.DefaultItems...)
	}

	for _, a := range req.Activities {
		if act := findNamed(e.rules.Activities, a); act != nil {
			items = append(items, act.Items...)
		}
	}
	items = Dedupe(items)

	if p := e.findPack(req.Pack); p != nil {
		if p.Limit > 0 && len(items) > p.Limit {
			items = items[:p.Limit]
		}
		items = append(items, p.Items...)
	}

	if req.TempC != nil {
		w := e.rules.Weather
		switch {
		case *req.TempC < w.ColdBelow:
			items = append(items, w.ColdItems...)
		case *req.TempC > w.HotAbove:
			items = append(items, w.HotItems...)
		}
	}

	if days := tripDays(req.StartDate, req.EndDate); days > 0 {
		for _, d := range e.rules.Duration {
			if days >= d.MinDays {
				items = append(items, d.Items...)
			}
		}
	}

	return Dedupe(items)
}

// Remove returns items without any occurrence of label.
func Remove(items []string, label string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != label {
			out = append(out, it)
		}
	}
	return out
}

// Dedupe drops repeated labels, keeping the first occurrence.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func findNamed(list []NamedItems, name string) *NamedItems {
	name = strings.TrimSpace(name)
	for i := range list {
		if strings.EqualFold(list[i].Name, name) {
			return &list[i]
		}
	}
	return nil
}

func (e *Engine) findPack(name string) *Pack {
	name = strings.TrimSpace(name)
	for i := range e.rules.Packs {
		if strings.EqualFold(e.rules.Packs[i].Name, name) {
			return &e.rules.Packs[i]
		}
	}
	return nil
}

// tripDays returns the inclusive day count, or 0 when either date is
// missing, malformed, or out of order.
func tripDays(start, end string) int {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil || e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
