package analytics

import (
	"fmt"
	"time"
)

type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// Bucket is one calendar period in a dense series. Start and End are
// inclusive dates carrying the bucket's natural boundaries; weekly buckets
// run Monday through Sunday per ISO 8601, monthly buckets cover the whole
// calendar month.
type Bucket struct {
	Label string    `json:"period"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the instant falls on a date inside the bucket.
func (b Bucket) Contains(t time.Time) bool {
	d := DayOf(t)
	return !d.Before(b.Start) && !d.After(b.End)
}

// DayOf truncates an instant to its calendar date in UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mondayOf(d time.Time) time.Time {
	// time.Weekday counts Sunday as 0; shift so Monday is 0
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Buckets generates the dense calendar sequence for the granularity: every
// period that intersects [start, end] appears exactly once, in ascending
// order, regardless of whether any data falls inside it.
func Buckets(g Granularity, start, end time.Time) []Bucket {
	first := DayOf(start)
	last := DayOf(end)
	if first.After(last) {
		return nil
	}

	var buckets []Bucket
	switch g {
	case GranularityDaily:
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			buckets = append(buckets, Bucket{
				Label: d.Format("2006-01-02"),
				Start: d,
				End:   d,
			})
		}
	case GranularityWeekly:
		for ws := mondayOf(first); !ws.After(last); ws = ws.AddDate(0, 0, 7) {
			isoYear, isoWeek := ws.ISOWeek()
			buckets = append(buckets, Bucket{
				Label: fmt.Sprintf("%04d-W%02d", isoYear, isoWeek),
				Start: ws,
				End:   ws.AddDate(0, 0, 6),
			})
		}
	case GranularityMonthly:
		for ms := firstOfMonth(first); !ms.After(last); ms = ms.AddDate(0, 1, 0) {
			buckets = append(buckets, Bucket{
				Label: ms.Format("2006-01"),
				Start: ms,
				End:   ms.AddDate(0, 1, -1),
			})
		}
	}
	return buckets
}

// MonthBounds returns the inclusive first and last day of a calendar month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
