package memory

import (
	"context"
	"sync"

	"slots-service/internal/models"
)

// Storage keeps the per-business documents in maps. Reads and writes copy,
// so callers always hold a snapshot that later writes cannot mutate.
type Storage struct {
	mu           sync.RWMutex
	schedules    map[string]models.WeeklySchedule
	overrides    map[string]models.Overrides
	appointments map[string]models.Appointments
}

func New() *Storage {
	return &Storage{
		schedules:    make(map[string]models.WeeklySchedule),
		overrides:    make(map[string]models.Overrides),
		appointments: make(map[string]models.Appointments),
	}
}

func (s *Storage) GetWeeklySchedule(_ context.Context, business string) (models.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[business]
	if !ok {
		return models.WeeklySchedule{}, nil
	}

	return schedule.Clone(), nil
}

func (s *Storage) SaveWeeklySchedule(_ context.Context, business string, schedule models.WeeklySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules[business] = schedule.Clone()
	return nil
}

func (s *Storage) GetOverrides(_ context.Context, business string) (models.Overrides, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overrides, ok := s.overrides[business]
	if !ok {
		return models.Overrides{}, nil
	}

	return overrides.Clone(), nil
}

func (s *Storage) SaveOverrides(_ context.Context, business string, overrides models.Overrides) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overrides[business] = overrides.Clone()
	return nil
}

func (s *Storage) GetAppointments(_ context.Context, business string) (models.Appointments, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appointments, ok := s.appointments[business]
	if !ok {
		return models.Appointments{}, nil
	}

	return appointments.Clone(), nil
}

func (s *Storage) SaveAppointments(_ context.Context, business string, appointments models.Appointments) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments[business] = appointments.Clone()
	return nil
}

func (s *Storage) SaveBookingState(_ context.Context, business string, appointments models.Appointments, overrides models.Overrides) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments[business] = appointments.Clone()
	s.overrides[business] = overrides.Clone()
	return nil
}

func (s *Storage) Close() error {
	return nil
}
