package service

import (
	"context"
	"fmt"
	"time"

	"slots-service/api"
	"slots-service/internal/metrics"
	"slots-service/internal/models"
	"slots-service/pkg/response"
)

// daySnapshot is one date's slice of the three documents, copied out
// before resolution so the computation never re-reads store state.
type daySnapshot struct {
	template []string
	override *models.DayOverride
	booked   map[string]bool
}

// GetWeekView resolves the rolling window, today through today+6. With
// withSource, every candidate time is emitted with its provenance tag;
// without, only available times are emitted and the tag is omitted.
func (s *Service) GetWeekView(ctx context.Context, business string, withSource bool) (api.WeekView, error) {
	const op = "service.GetWeekView"

	schedule, overrides, appointments, err := s.snapshot(ctx, business)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	week := make(api.WeekView, 0, windowDays)
	start := dateOnly(s.now())
	for i := 0; i < windowDays; i++ {
		day := start.AddDate(0, 0, i)
		week = append(week, resolveDay(day, snapshotFor(day, schedule, overrides, appointments), withSource))
	}

	metrics.IncWeekResolved()

	return week, nil
}

// IsSlotAvailable is a point query against the resolved window; dates
// outside it are never available.
func (s *Service) IsSlotAvailable(ctx context.Context, business, date, timeOfDay string) (bool, error) {
	const op = "service.IsSlotAvailable"

	if !models.IsValidDate(date) || !models.IsValidTime(timeOfDay) {
		return false, fmt.Errorf("%s: invalid date or time: %w", op, response.ErrValidation)
	}

	schedule, overrides, appointments, err := s.snapshot(ctx, business)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return s.isAvailable(schedule, overrides, appointments, date, timeOfDay), nil
}

func (s *Service) snapshot(ctx context.Context, business string) (models.WeeklySchedule, models.Overrides, models.Appointments, error) {
	schedule, err := s.store.GetWeeklySchedule(ctx, business)
	if err != nil {
		return nil, nil, nil, err
	}

	overrides, err := s.store.GetOverrides(ctx, business)
	if err != nil {
		return nil, nil, nil, err
	}

	appointments, err := s.store.GetAppointments(ctx, business)
	if err != nil {
		return nil, nil, nil, err
	}

	return schedule, overrides, appointments, nil
}

// isAvailable answers the point query on an already-taken snapshot, so
// Book can reuse the exact state it locked.
func (s *Service) isAvailable(schedule models.WeeklySchedule, overrides models.Overrides, appointments models.Appointments, date, timeOfDay string) bool {
	start := dateOnly(s.now())
	var day time.Time
	inWindow := false
	for i := 0; i < windowDays; i++ {
		d := start.AddDate(0, 0, i)
		if d.Format(models.DateLayout) == date {
			day = d
			inWindow = true
			break
		}
	}
	if !inWindow {
		return false
	}

	resolved := resolveDay(day, snapshotFor(day, schedule, overrides, appointments), true)
	for _, slot := range resolved.Times {
		if slot.Time == timeOfDay {
			return slot.Available
		}
	}

	return false
}

func snapshotFor(day time.Time, schedule models.WeeklySchedule, overrides models.Overrides, appointments models.Appointments) daySnapshot {
	date := day.Format(models.DateLayout)

	booked := map[string]bool{}
	for _, a := range appointments[date] {
		booked[a.Time] = true
	}

	return daySnapshot{
		template: schedule[models.WeekdayKey(day)],
		override: overrides[date],
		booked:   booked,
	}
}

// resolveDay merges template, override and bookings for one date.
//
// Precedence per candidate time: a rename target is always shown available,
// a rename source is excluded entirely, and only then do the disabled-day,
// removed and booked checks decide availability.
func resolveDay(day time.Time, snap daySnapshot, withSource bool) api.DayAvailability {
	override := snap.override
	if override == nil {
		override = models.NewDayOverride()
	}

	disabledDay := override.FullyDisabled()

	removed := map[string]bool{}
	for _, t := range override.Remove {
		removed[t] = true
	}

	added := map[string]bool{}
	for _, t := range override.Add {
		added[t] = true
	}

	inTemplate := map[string]bool{}
	for _, t := range snap.template {
		inTemplate[t] = true
	}

	editedTo := map[string]bool{}
	editedFrom := map[string]bool{}
	for _, e := range override.Edit {
		editedTo[e.To] = true
		editedFrom[e.From] = true
	}

	candidates := models.SortTimes(snap.template)
	for _, t := range override.Add {
		candidates = models.InsertTime(candidates, t)
	}
	for _, e := range override.Edit {
		candidates = models.InsertTime(candidates, e.To)
	}

	times := []api.SlotView{}
	for _, t := range candidates {
		if editedTo[t] {
			times = appendSlot(times, t, true, models.SourceEdited, withSource)
			continue
		}
		if editedFrom[t] {
			continue
		}

		available := !(disabledDay || removed[t] || snap.booked[t])

		var source models.SlotSource
		switch {
		case snap.booked[t]:
			source = models.SourceBooked
		case added[t] && !inTemplate[t]:
			source = models.SourceAdded
		case inTemplate[t] && (removed[t] || disabledDay):
			source = models.SourceDisabled
		default:
			source = models.SourceBase
		}

		times = appendSlot(times, t, available, source, withSource)
	}

	return api.DayAvailability{
		Date:    day.Format(models.DateLayout),
		DayName: day.Weekday().String(),
		Times:   times,
	}
}

func appendSlot(times []api.SlotView, t string, available bool, source models.SlotSource, withSource bool) []api.SlotView {
	if !withSource {
		if !available {
			return times
		}
		return append(times, api.SlotView{Time: t, Available: true})
	}

	return append(times, api.SlotView{Time: t, Available: available, Source: string(source)})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
