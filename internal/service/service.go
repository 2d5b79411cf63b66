package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"slots-service/api"
	"slots-service/internal/lock"
	"slots-service/internal/models"
	"slots-service/internal/notify"
	"slots-service/pkg/response"
)

const lockTTL = 10 * time.Second

// windowDays is the rolling availability window, today inclusive.
const windowDays = 7

type Service struct {
	store     Store
	locker    lock.Locker
	notifier  notify.Notifier
	log       *slog.Logger
	offerings map[string]float64

	now func() time.Time
}

// Store owns the three per-business documents. Reads return a snapshot the
// caller may mutate freely; SaveBookingState persists appointments and
// overrides all-or-nothing.
type Store interface {
	GetWeeklySchedule(ctx context.Context, business string) (models.WeeklySchedule, error)
	SaveWeeklySchedule(ctx context.Context, business string, schedule models.WeeklySchedule) error

	GetOverrides(ctx context.Context, business string) (models.Overrides, error)
	SaveOverrides(ctx context.Context, business string, overrides models.Overrides) error

	GetAppointments(ctx context.Context, business string) (models.Appointments, error)
	SaveAppointments(ctx context.Context, business string, appointments models.Appointments) error

	SaveBookingState(ctx context.Context, business string, appointments models.Appointments, overrides models.Overrides) error
}

// Offering is a bookable service and its committed price.
type Offering struct {
	Name  string
	Price float64
}

func NewService(log *slog.Logger, store Store, locker lock.Locker, notifier notify.Notifier, offerings []Offering) *Service {
	priced := make(map[string]float64, len(offerings))
	for _, o := range offerings {
		priced[o.Name] = o.Price
	}

	return &Service{
		store:     store,
		locker:    locker,
		notifier:  notifier,
		log:       log,
		offerings: priced,
		now:       time.Now,
	}
}

func (s *Service) acquire(ctx context.Context, op, key string) (func(), error) {
	locked, err := s.locker.Lock(ctx, key, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}

	return func() {
		_ = s.locker.Unlock(ctx, key)
	}, nil
}

// TemplateAction applies one mutation to the weekly schedule and returns
// the weekday's updated slot list.
func (s *Service) TemplateAction(ctx context.Context, business string, req *api.TemplateActionRequest) (*api.TemplateResponse, error) {
	const op = "service.TemplateAction"

	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, fmt.Errorf("%s: weekday out of range: %w", op, response.ErrValidation)
	}

	unlock, err := s.acquire(ctx, op, fmt.Sprintf("%s:template:%d", business, req.Weekday))
	if err != nil {
		return nil, err
	}
	defer unlock()

	schedule, err := s.store.GetWeeklySchedule(ctx, business)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := strconv.Itoa(req.Weekday)
	slots := schedule[key]

	switch req.Action {
	case api.TemplateActionEnableDay:
		if _, ok := schedule[key]; !ok {
			schedule[key] = []string{}
		}

	case api.TemplateActionDisableDay:
		// Destructive: the prior slot list is not remembered.
		schedule[key] = []string{}

	case api.TemplateActionSet:
		for _, t := range req.Times {
			if !models.IsValidTime(t) {
				return nil, fmt.Errorf("%s: invalid time %q: %w", op, t, response.ErrValidation)
			}
		}
		schedule[key] = models.SortTimes(req.Times)

	case api.TemplateActionAdd:
		if !models.IsValidTime(req.Time) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		schedule[key] = models.InsertTime(slots, req.Time)

	case api.TemplateActionRemove:
		if !models.IsValidTime(req.Time) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		schedule[key] = models.DropTime(slots, req.Time)

	case api.TemplateActionEdit:
		if !models.IsValidTime(req.Time) || !models.IsValidTime(req.NewTime) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		// No-op when the source time is absent.
		if models.HasTime(slots, req.Time) {
			slots = models.DropTime(slots, req.Time)
			schedule[key] = models.InsertTime(slots, req.NewTime)
		}

	default:
		return nil, fmt.Errorf("%s: unknown action %q: %w", op, req.Action, response.ErrValidation)
	}

	if err := s.store.SaveWeeklySchedule(ctx, business, schedule); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.TemplateResponse{Weekday: req.Weekday, Slots: schedule[key]}, nil
}

// OverrideAction applies one mutation to a date's override entry.
func (s *Service) OverrideAction(ctx context.Context, business string, req *api.OverrideActionRequest) (*api.OverrideResponse, error) {
	const op = "service.OverrideAction"

	if !models.IsValidDate(req.Date) {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrValidation)
	}

	unlock, err := s.acquire(ctx, op, fmt.Sprintf("%s:%s", business, req.Date))
	if err != nil {
		return nil, err
	}
	defer unlock()

	overrides, err := s.store.GetOverrides(ctx, business)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := overrides[req.Date]
	if entry == nil {
		entry = models.NewDayOverride()
	}

	switch req.Action {
	case api.OverrideActionAdd:
		if !models.IsValidTime(req.Time) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		// An add wins over a prior remove for the same time.
		entry.Add = models.InsertTime(entry.Add, req.Time)
		entry.Remove = models.DropTime(entry.Remove, req.Time)
		overrides[req.Date] = entry

	case api.OverrideActionRemove:
		if !models.IsValidTime(req.Time) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		removeTime(entry, req.Time)
		overrides[req.Date] = entry

	case api.OverrideActionRemoveMany:
		// Bulk fast path: unlike single remove, renames touching the
		// removed times are left in place.
		for _, t := range req.Times {
			if !models.IsValidTime(t) {
				return nil, fmt.Errorf("%s: invalid time %q: %w", op, t, response.ErrValidation)
			}
		}
		for _, t := range req.Times {
			entry.Remove = models.InsertTime(entry.Remove, t)
			entry.Add = models.DropTime(entry.Add, t)
		}
		overrides[req.Date] = entry

	case api.OverrideActionEdit:
		if !models.IsValidTime(req.Time) || !models.IsValidTime(req.NewTime) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		if req.Time == req.NewTime {
			break
		}
		editTime(entry, req.Time, req.NewTime)
		overrides[req.Date] = entry

	case api.OverrideActionClear:
		delete(overrides, req.Date)
		entry = nil

	case api.OverrideActionDisableDay:
		entry = disableDay(entry)
		overrides[req.Date] = entry

	case api.OverrideActionRevert:
		if !models.IsValidTime(req.Time) {
			return nil, fmt.Errorf("%s: invalid time: %w", op, response.ErrValidation)
		}
		revertTime(entry, req.Time)
		if entry.Empty() {
			delete(overrides, req.Date)
			entry = nil
		} else {
			overrides[req.Date] = entry
		}

	default:
		return nil, fmt.Errorf("%s: unknown action %q: %w", op, req.Action, response.ErrValidation)
	}

	if err := s.store.SaveOverrides(ctx, business, overrides); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.OverrideResponse{Date: req.Date, State: toOverrideState(entry)}, nil
}

// ToggleDay disables a date entirely, or re-enables it when it was
// disabled through the plain disable path and nothing else.
func (s *Service) ToggleDay(ctx context.Context, business string, req *api.ToggleDayRequest) (*api.OverrideResponse, error) {
	const op = "service.ToggleDay"

	if !models.IsValidDate(req.Date) {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrValidation)
	}

	unlock, err := s.acquire(ctx, op, fmt.Sprintf("%s:%s", business, req.Date))
	if err != nil {
		return nil, err
	}
	defer unlock()

	overrides, err := s.store.GetOverrides(ctx, business)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := overrides[req.Date]

	if !req.Enabled {
		entry = disableDay(entry)
		overrides[req.Date] = entry
	} else if entry != nil && len(entry.Remove) == 1 && entry.Remove[0] == models.DayDisabledMarker {
		delete(overrides, req.Date)
		entry = nil
	}

	if err := s.store.SaveOverrides(ctx, business, overrides); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.OverrideResponse{Date: req.Date, State: toOverrideState(entry)}, nil
}

// removeTime suppresses a time for the date and invalidates any rename
// touching it.
func removeTime(entry *models.DayOverride, t string) {
	entry.Remove = models.InsertTime(entry.Remove, t)
	entry.Add = models.DropTime(entry.Add, t)

	kept := entry.Edit[:0]
	for _, e := range entry.Edit {
		if e.From != t && e.To != t {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		entry.Edit = nil
	} else {
		entry.Edit = kept
	}
}

// editTime records a rename: the source is hidden, the target is shown.
// A later rename of the same source replaces the earlier one.
func editTime(entry *models.DayOverride, from, to string) {
	kept := entry.Edit[:0]
	for _, e := range entry.Edit {
		if e.From != from {
			kept = append(kept, e)
		}
	}
	entry.Edit = append(kept, models.EditPair{From: from, To: to})

	entry.Remove = models.InsertTime(entry.Remove, from)
	entry.Add = models.DropTime(entry.Add, from)
	entry.Add = models.InsertTime(entry.Add, to)
}

// revertTime restores a time to its pristine state, unwinding both sides
// of any rename it took part in.
func revertTime(entry *models.DayOverride, t string) {
	entry.Add = models.DropTime(entry.Add, t)
	entry.Remove = models.DropTime(entry.Remove, t)

	kept := entry.Edit[:0]
	for _, e := range entry.Edit {
		if e.From != t && e.To != t {
			kept = append(kept, e)
			continue
		}
		entry.Remove = models.DropTime(entry.Remove, e.From)
		entry.Add = models.DropTime(entry.Add, e.To)
	}
	if len(kept) == 0 {
		entry.Edit = nil
	} else {
		entry.Edit = kept
	}
}

// disableDay replaces the entry with the day-disabling sentinel, keeping
// only the booked audit list.
func disableDay(entry *models.DayOverride) *models.DayOverride {
	disabled := &models.DayOverride{
		Add:    []string{},
		Remove: []string{models.DayDisabledMarker},
	}
	if entry != nil {
		disabled.Booked = entry.Booked
	}
	return disabled
}

func toOverrideState(entry *models.DayOverride) *api.OverrideState {
	if entry == nil {
		return nil
	}

	state := &api.OverrideState{
		Add:    append([]string{}, entry.Add...),
		Remove: append([]string{}, entry.Remove...),
	}
	for _, e := range entry.Edit {
		state.Edit = append(state.Edit, api.EditPair{From: e.From, To: e.To})
	}
	for _, b := range entry.Booked {
		state.Booked = append(state.Booked, api.BookedEntry{
			Time:    b.Time,
			Name:    b.Name,
			Phone:   b.Phone,
			Service: b.Service,
		})
	}

	return state
}
