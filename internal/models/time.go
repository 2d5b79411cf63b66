package models

import (
	"sort"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// IsValidTime accepts only zero-padded "HH:MM" values, so that
// lexicographic order stays chronological.
func IsValidTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

func IsValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// InsertTime adds t keeping the list sorted ascending; adding an existing
// time is a no-op.
func InsertTime(times []string, t string) []string {
	i := sort.SearchStrings(times, t)
	if i < len(times) && times[i] == t {
		return times
	}
	times = append(times, "")
	copy(times[i+1:], times[i:])
	times[i] = t
	return times
}

// DropTime removes t if present; absent times are a no-op.
func DropTime(times []string, t string) []string {
	for i, v := range times {
		if v == t {
			return append(times[:i], times[i+1:]...)
		}
	}
	return times
}

func HasTime(times []string, t string) bool {
	for _, v := range times {
		if v == t {
			return true
		}
	}
	return false
}

// SortTimes returns a sorted copy with duplicates removed.
func SortTimes(times []string) []string {
	out := []string{}
	for _, t := range times {
		out = InsertTime(out, t)
	}
	return out
}

// WeekdayKey maps a date to its schedule key, 0=Monday .. 6=Sunday.
func WeekdayKey(t time.Time) string {
	idx := (int(t.Weekday()) + 6) % 7
	return weekdayKeys[idx]
}

var weekdayKeys = [7]string{"0", "1", "2", "3", "4", "5", "6"}
