// Package trip derives views of a trip and its itinerary: status, length,
// day numbering and completion progress.
package trip

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/wanderpack/internal/model"
)

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusPast     Status = "past"
)

// ValidStatus reports whether s names a trip status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusUpcoming, StatusOngoing, StatusPast:
		return true
	}
	return false
}

var (
	ErrTitleTooShort       = errors.New("title must be at least 3 characters")
	ErrDestinationRequired = errors.New("destination is required")
	ErrInvalidDate         = errors.New("dates must be YYYY-MM-DD")
	ErrDateOrder           = errors.New("end date must not be before start date")
	ErrInvalidTime         = errors.New("time must be HH:MM")
	ErrActivityRequired    = errors.New("activity is required")
	ErrDayOutOfRange       = errors.New("day is outside the trip")
)

const minTitleLen = 3

// Validate checks the user-editable trip fields.
func Validate(title, destination, startDate, endDate string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < minTitleLen {
		return ErrTitleTooShort
	}
	if strings.TrimSpace(destination) == "" {
		return ErrDestinationRequired
	}
	start, err := ParseDate(startDate)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrDateOrder
	}
	return nil
}

// ValidateItem checks an itinerary entry against the trip it belongs to.
func ValidateItem(t model.Trip, day int, clock, activity string) error {
	if strings.TrimSpace(activity) == "" {
		return ErrActivityRequired
	}
	if !ValidClock(clock) {
		return ErrInvalidTime
	}
	if day < 1 || day > DurationDays(t) {
		return ErrDayOutOfRange
	}
	return nil
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, strings.TrimSpace(s))
}

// ValidClock reports whether s is a 24h "HH:MM" value.
func ValidClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ComputeStatus compares the trip dates with today at day granularity.
func ComputeStatus(t model.Trip, today time.Time) Status {
	d := today.Format(model.DateLayout)
	switch {
	case t.StartDate > d:
		return StatusUpcoming
	case t.EndDate < d:
		return StatusPast
	default:
		return StatusOngoing
	}
}

// DurationDays is the inclusive number of days, or 0 if the dates do not parse.
func DurationDays(t model.Trip) int {
	start, err := ParseDate(t.StartDate)
	if err != nil {
		return 0
	}
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return 0
	}
	days := daysBetween(start, end)
	if days < 0 {
		days = -days
	}
	return days + 1
}

// Days lists every calendar date of the trip, start and end included.
func Days(t model.Trip) []time.Time {
	start, err := ParseDate(t.StartDate)
	if err != nil {
		return nil
	}
	n := DurationDays(t)
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// DayNumber is the 1-based position of date relative to the trip start.
// Dates before the start yield values below 1.
func DayNumber(t model.Trip, date time.Time) int {
	start, err := ParseDate(t.StartDate)
	if err != nil {
		return 0
	}
	return daysBetween(start, date) + 1
}

// DayForDate converts a YYYY-MM-DD date into a day number within the trip.
func DayForDate(t model.Trip, date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, ErrInvalidDate
	}
	day := DayNumber(t, d)
	if day < 1 || day > DurationDays(t) {
		return 0, ErrDayOutOfRange
	}
	return day, nil
}

// DayActivities returns the items scheduled on day, earliest first.
func DayActivities(items []model.ItineraryItem, day int) []model.ItineraryItem {
	out := []model.ItineraryItem{}
	for _, it := range items {
		if it.Day == day {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func CompletedCount(items []model.ItineraryItem) int {
	n := 0
	for _, it := range items {
		if it.Completed {
			n++
		}
	}
	return n
}

// CompletedPercent is the rounded share of completed items, 0 when there are none.
func CompletedPercent(items []model.ItineraryItem) int {
	if len(items) == 0 {
		return 0
	}
	return int(math.Round(float64(CompletedCount(items)) * 100 / float64(len(items))))
}

// FormatTime renders "HH:MM" as "h:MM AM/PM". Unparseable input is returned as is.
func FormatTime(clock string) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

type Summary struct {
	Status           Status `json:"status"`
	DurationDays     int    `json:"duration_days"`
	ItemCount        int    `json:"item_count"`
	CompletedCount   int    `json:"completed_count"`
	CompletedPercent int    `json:"completed_percent"`
}

func Summarize(t model.Trip, items []model.ItineraryItem, today time.Time) Summary {
	return Summary{
		Status:           ComputeStatus(t, today),
		DurationDays:     DurationDays(t),
		ItemCount:        len(items),
		CompletedCount:   CompletedCount(items),
		CompletedPercent: CompletedPercent(items),
	}
}

// Day is one calendar day of a trip with its scheduled activities.
type Day struct {
	Day        int                   `json:"day"`
	Date       string                `json:"date"`
	Activities []model.ItineraryItem `json:"activities"`
}

// Schedule groups items by trip day. Days without activities are included.
func Schedule(t model.Trip, items []model.ItineraryItem) []Day {
	dates := Days(t)
	out := make([]Day, 0, len(dates))
	for i, d := range dates {
		out = append(out, Day{
			Day:        i + 1,
			Date:       d.Format(model.DateLayout),
			Activities: DayActivities(items, i+1),
		})
	}
	return out
}

func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
