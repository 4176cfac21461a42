package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const secondsPerDay = 24 * 60 * 60

// Quote is the price of a stay at the listing's current nightly rate.
type Quote struct {
	Nights       int
	NightlyPrice decimal.Decimal
	TotalPrice   decimal.Decimal
}

// DateOf drops the time of day, keeping the calendar date as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights counts the nights of the stay [start, end). Both dates are UTC
// midnights, so the difference in Unix seconds is an exact multiple of a day.
func Nights(start, end time.Time) int {
	return int((DateOf(end).Unix() - DateOf(start).Unix()) / secondsPerDay)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share a night.
// Touching ranges, where one ends the day the other starts, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func validateRange(start, end time.Time) error {
	if !DateOf(end).After(DateOf(start)) {
		return &FieldError{Kind: ErrInvalidDateRange, Field: "end_date", Reason: "must be after start_date"}
	}
	return nil
}

func quote(nightly decimal.Decimal, start, end time.Time) Quote {
	nights := Nights(start, end)
	return Quote{
		Nights:       nights,
		NightlyPrice: nightly,
		TotalPrice:   nightly.Mul(decimal.NewFromInt(int64(nights))).Round(2),
	}
}
