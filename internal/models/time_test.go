package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTime(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"09:00", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"9:00", false},
		{"09:0", false},
		{"09:60", false},
		{"0900", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidTime(tc.in), "IsValidTime(%q)", tc.in)
	}
}

func TestIsValidDate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2026-03-02", true},
		{"2026-3-2", false},
		{"2026-13-01", false},
		{"02-03-2026", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidDate(tc.in), "IsValidDate(%q)", tc.in)
	}
}

func TestInsertTime(t *testing.T) {
	times := []string{}
	for _, tm := range []string{"10:00", "09:00", "12:30", "10:00"} {
		times = InsertTime(times, tm)
	}

	assert.Equal(t, []string{"09:00", "10:00", "12:30"}, times)
}

func TestDropTime(t *testing.T) {
	times := []string{"09:00", "10:00", "12:30"}

	times = DropTime(times, "10:00")
	assert.Equal(t, []string{"09:00", "12:30"}, times)

	times = DropTime(times, "10:00")
	assert.Equal(t, []string{"09:00", "12:30"}, times)
}

func TestSortTimes(t *testing.T) {
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, SortTimes([]string{"10:00", "08:00", "09:00", "08:00"}))
	assert.Equal(t, []string{}, SortTimes(nil))
}

func TestWeekdayKey(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-03-02", "0"}, // Monday
		{"2026-03-04", "2"}, // Wednesday
		{"2026-03-07", "5"}, // Saturday
		{"2026-03-08", "6"}, // Sunday
	}

	for _, tc := range cases {
		day, err := time.Parse(DateLayout, tc.date)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, WeekdayKey(day), "WeekdayKey(%s)", tc.date)
	}
}
