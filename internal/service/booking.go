package service

import (
	"context"
	"fmt"

	"slots-service/api"
	"slots-service/internal/metrics"
	"slots-service/internal/models"
	"slots-service/internal/notify"
	"slots-service/pkg/response"
	"slots-service/pkg/sl"
)

// Book commits a new appointment. The date lock is held across the
// availability check, the duplicate check and the write, so concurrent
// bookings of the same slot cannot interleave.
func (s *Service) Book(ctx context.Context, business string, req *api.BookingRequest) (*api.BookingResponse, error) {
	const op = "service.Book"

	if req.Name == "" || req.Phone == "" || req.Date == "" || req.Time == "" || req.Service == "" {
		return nil, fmt.Errorf("%s: missing required field: %w", op, response.ErrValidation)
	}
	if !models.IsValidDate(req.Date) || !models.IsValidTime(req.Time) {
		return nil, fmt.Errorf("%s: invalid date or time: %w", op, response.ErrValidation)
	}

	price, known := s.offerings[req.Service]
	if !known {
		return nil, fmt.Errorf("%s: %q: %w", op, req.Service, response.ErrUnknownService)
	}

	unlock, err := s.acquire(ctx, op, fmt.Sprintf("%s:%s", business, req.Date))
	if err != nil {
		return nil, err
	}
	defer unlock()

	schedule, overrides, appointments, err := s.snapshot(ctx, business)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.isAvailable(schedule, overrides, appointments, req.Date, req.Time) {
		metrics.IncBookingConflict()
		return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
	}

	// Second line of defense: the slot may be unavailable for reasons the
	// resolver does not see, e.g. a booked-then-renamed time.
	for _, a := range appointments[req.Date] {
		if a.Time == req.Time {
			metrics.IncBookingConflict()
			return nil, fmt.Errorf("%s: %w", op, response.ErrAlreadyBooked)
		}
	}

	appointments[req.Date] = append(appointments[req.Date], models.Appointment{
		Name:    req.Name,
		Phone:   req.Phone,
		Time:    req.Time,
		Service: req.Service,
		Price:   price,
	})

	entry := overrides[req.Date]
	if entry == nil {
		entry = models.NewDayOverride()
	}
	entry.Remove = models.InsertTime(entry.Remove, req.Time)
	entry.Add = models.DropTime(entry.Add, req.Time)
	entry.Booked = append(entry.Booked, models.BookedEntry{
		Time:    req.Time,
		Name:    req.Name,
		Phone:   req.Phone,
		Service: req.Service,
	})
	overrides[req.Date] = entry

	if err := s.store.SaveBookingState(ctx, business, appointments, overrides); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.IncBookingCreated(req.Service)

	if err := s.notifier.BookingCreated(ctx, notify.BookingEvent{
		Business: business,
		Date:     req.Date,
		Time:     req.Time,
		Name:     req.Name,
		Phone:    req.Phone,
		Service:  req.Service,
		Price:    price,
	}); err != nil {
		s.log.Error("Failed to send booking notification", sl.Err(err))
	}

	return &api.BookingResponse{
		Date:    req.Date,
		Time:    req.Time,
		Service: req.Service,
		Price:   price,
		CancelHandle: api.CancelHandle{
			Date:  req.Date,
			Time:  req.Time,
			Name:  req.Name,
			Phone: req.Phone,
		},
	}, nil
}

// Cancel reverses a booking identified by its exact handle. The freed time
// comes back as an override-added slot, not as pristine template state.
func (s *Service) Cancel(ctx context.Context, business string, req *api.CancelRequest) error {
	const op = "service.Cancel"

	if req.Name == "" || req.Phone == "" || req.Date == "" || req.Time == "" {
		return fmt.Errorf("%s: missing required field: %w", op, response.ErrValidation)
	}
	if !models.IsValidDate(req.Date) || !models.IsValidTime(req.Time) {
		return fmt.Errorf("%s: invalid date or time: %w", op, response.ErrValidation)
	}

	unlock, err := s.acquire(ctx, op, fmt.Sprintf("%s:%s", business, req.Date))
	if err != nil {
		return err
	}
	defer unlock()

	appointments, err := s.store.GetAppointments(ctx, business)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	list := appointments[req.Date]
	idx := -1
	for i, a := range list {
		if a.Time == req.Time && a.Name == req.Name && a.Phone == req.Phone {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	cancelled := list[idx]
	list = append(list[:idx], list[idx+1:]...)
	if len(list) == 0 {
		delete(appointments, req.Date)
	} else {
		appointments[req.Date] = list
	}

	overrides, err := s.store.GetOverrides(ctx, business)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	entry := overrides[req.Date]
	if entry == nil {
		entry = models.NewDayOverride()
	}
	entry.Remove = models.DropTime(entry.Remove, req.Time)
	entry.Add = models.InsertTime(entry.Add, req.Time)
	for i, b := range entry.Booked {
		if b.Time == req.Time && b.Name == req.Name && b.Phone == req.Phone {
			entry.Booked = append(entry.Booked[:i], entry.Booked[i+1:]...)
			break
		}
	}
	overrides[req.Date] = entry

	if err := s.store.SaveBookingState(ctx, business, appointments, overrides); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.IncBookingCancelled()

	if err := s.notifier.BookingCancelled(ctx, notify.BookingEvent{
		Business: business,
		Date:     req.Date,
		Time:     req.Time,
		Name:     req.Name,
		Phone:    req.Phone,
		Service:  cancelled.Service,
		Price:    cancelled.Price,
	}); err != nil {
		s.log.Error("Failed to send cancellation notification", sl.Err(err))
	}

	return nil
}
