package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"slots-service/api"
	"slots-service/internal/lock"
	"slots-service/internal/models"
	"slots-service/internal/notify"
	"slots-service/internal/storage/memory"
	"slots-service/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBusiness = "barbershop"

// 2026-03-02 is a Monday, weekday key "0".
var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

const (
	monday  = "2026-03-02"
	tuesday = "2026-03-03"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingCreated(ctx context.Context, event notify.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockNotifier) BookingCancelled(ctx context.Context, event notify.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newTestService(t *testing.T) (*Service, *memory.Storage, *mockNotifier) {
	t.Helper()

	store := memory.New()
	notifier := new(mockNotifier)
	notifier.On("BookingCreated", mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier.On("BookingCancelled", mock.Anything, mock.Anything).Return(nil).Maybe()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, store, lock.NewLocalLock(), notifier, []Offering{
		{Name: "haircut", Price: 80},
		{Name: "manicure", Price: 120},
	})
	svc.now = func() time.Time { return testNow }

	return svc, store, notifier
}

func seedMondayTemplate(t *testing.T, store *memory.Storage, times ...string) {
	t.Helper()

	err := store.SaveWeeklySchedule(context.Background(), testBusiness, models.WeeklySchedule{
		"0": times,
	})
	require.NoError(t, err)
}

func dayOf(t *testing.T, week api.WeekView, date string) api.DayAvailability {
	t.Helper()

	for _, day := range week {
		if day.Date == date {
			return day
		}
	}
	t.Fatalf("date %s not in week view", date)
	return api.DayAvailability{}
}

func TestGetWeekView_TemplateOnly(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00", "10:00", "11:00")

	week, err := svc.GetWeekView(ctx, testBusiness, true)
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, monday, week[0].Date)
	assert.Equal(t, "Monday", week[0].DayName)

	day := dayOf(t, week, monday)
	require.Len(t, day.Times, 3)
	for _, slot := range day.Times {
		assert.True(t, slot.Available)
		assert.Equal(t, string(models.SourceBase), slot.Source)
	}

	// Days without template entries resolve to an empty slot list.
	assert.Empty(t, dayOf(t, week, tuesday).Times)
}

func TestTemplateAction(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("InvalidWeekday", func(t *testing.T) {
		_, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
			Weekday: 7,
			Action:  api.TemplateActionAdd,
			Time:    "09:00",
		})
		assert.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("AddKeepsOrderAndIsIdempotent", func(t *testing.T) {
		for _, tm := range []string{"10:00", "09:00", "10:00"} {
			_, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
				Weekday: 0,
				Action:  api.TemplateActionAdd,
				Time:    tm,
			})
			require.NoError(t, err)
		}

		resp, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
			Weekday: 0,
			Action:  api.TemplateActionAdd,
			Time:    "09:30",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:00"}, resp.Slots)
	})

	t.Run("EditAbsentIsNoOp", func(t *testing.T) {
		resp, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
			Weekday: 0,
			Action:  api.TemplateActionEdit,
			Time:    "23:00",
			NewTime: "23:30",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30", "10:00"}, resp.Slots)
	})

	t.Run("EditMovesSlot", func(t *testing.T) {
		resp, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
			Weekday: 0,
			Action:  api.TemplateActionEdit,
			Time:    "09:30",
			NewTime: "11:00",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "11:00"}, resp.Slots)
	})

	t.Run("DisableDayClears", func(t *testing.T) {
		resp, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
			Weekday: 0,
			Action:  api.TemplateActionDisableDay,
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("SetReplacesSorted", func(t *testing.T) {
		resp, err := svc.TemplateAction(ctx, testBusiness, &api.TemplateActionRequest{
			Weekday: 0,
			Action:  api.TemplateActionSet,
			Times:   []string{"12:00", "08:00", "12:00"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00", "12:00"}, resp.Slots)
	})
}

func TestOverrideAdd_Idempotent(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
			Date:   monday,
			Action: api.OverrideActionAdd,
			Time:   "13:00",
		})
		require.NoError(t, err)
	}

	overrides, err := store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	require.Contains(t, overrides, monday)
	assert.Equal(t, []string{"13:00"}, overrides[monday].Add)
	assert.Empty(t, overrides[monday].Remove)
}

func TestOverrideRemove_PurgesEdits(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "09:00",
		NewTime: "09:30",
	})
	require.NoError(t, err)

	_, err = svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:   monday,
		Action: api.OverrideActionRemove,
		Time:   "09:30",
	})
	require.NoError(t, err)

	overrides, err := store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	assert.Empty(t, overrides[monday].Edit)
	assert.Equal(t, []string{"09:00", "09:30"}, overrides[monday].Remove)
}

func TestOverrideRemoveMany_KeepsEdits(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "09:00",
		NewTime: "09:30",
	})
	require.NoError(t, err)

	_, err = svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:   monday,
		Action: api.OverrideActionRemoveMany,
		Times:  []string{"09:30", "10:00"},
	})
	require.NoError(t, err)

	overrides, err := store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	require.Len(t, overrides[monday].Edit, 1)
	assert.Equal(t, models.EditPair{From: "09:00", To: "09:30"}, overrides[monday].Edit[0])
	assert.Contains(t, overrides[monday].Remove, "10:00")
}

func TestOverrideEdit_LatestWinsAndNoOp(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "09:00",
		NewTime: "09:30",
	})
	require.NoError(t, err)

	_, err = svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "09:00",
		NewTime: "09:45",
	})
	require.NoError(t, err)

	// from == to is a silent no-op.
	_, err = svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "10:00",
		NewTime: "10:00",
	})
	require.NoError(t, err)

	overrides, err := store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	require.Len(t, overrides[monday].Edit, 1)
	assert.Equal(t, models.EditPair{From: "09:00", To: "09:45"}, overrides[monday].Edit[0])
	assert.Contains(t, overrides[monday].Remove, "09:00")
	assert.Contains(t, overrides[monday].Add, "09:45")
}

func TestOverrideRevert_UnwindsEditAndDropsDate(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "09:00",
		NewTime: "09:30",
	})
	require.NoError(t, err)

	resp, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:   monday,
		Action: api.OverrideActionRevert,
		Time:   "09:00",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.State)

	overrides, err := store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	assert.NotContains(t, overrides, monday)
}

func TestToggleDay(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	t.Run("DisableThenEnableDropsEntry", func(t *testing.T) {
		_, err := svc.ToggleDay(ctx, testBusiness, &api.ToggleDayRequest{Date: monday, Enabled: false})
		require.NoError(t, err)

		overrides, err := store.GetOverrides(ctx, testBusiness)
		require.NoError(t, err)
		assert.Equal(t, []string{models.DayDisabledMarker}, overrides[monday].Remove)

		_, err = svc.ToggleDay(ctx, testBusiness, &api.ToggleDayRequest{Date: monday, Enabled: true})
		require.NoError(t, err)

		overrides, err = store.GetOverrides(ctx, testBusiness)
		require.NoError(t, err)
		assert.NotContains(t, overrides, monday)
	})

	t.Run("EnableLeavesOtherRemoveStateUntouched", func(t *testing.T) {
		_, err := svc.ToggleDay(ctx, testBusiness, &api.ToggleDayRequest{Date: tuesday, Enabled: false})
		require.NoError(t, err)

		_, err = svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
			Date:   tuesday,
			Action: api.OverrideActionRemove,
			Time:   "10:00",
		})
		require.NoError(t, err)

		_, err = svc.ToggleDay(ctx, testBusiness, &api.ToggleDayRequest{Date: tuesday, Enabled: true})
		require.NoError(t, err)

		overrides, err := store.GetOverrides(ctx, testBusiness)
		require.NoError(t, err)
		require.Contains(t, overrides, tuesday)
		assert.Equal(t, []string{"10:00", models.DayDisabledMarker}, overrides[tuesday].Remove)
	})

	t.Run("DisableDiscardsPriorAddEditState", func(t *testing.T) {
		_, err := svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
			Date:   monday,
			Action: api.OverrideActionAdd,
			Time:   "13:00",
		})
		require.NoError(t, err)

		_, err = svc.ToggleDay(ctx, testBusiness, &api.ToggleDayRequest{Date: monday, Enabled: false})
		require.NoError(t, err)

		overrides, err := store.GetOverrides(ctx, testBusiness)
		require.NoError(t, err)
		assert.Empty(t, overrides[monday].Add)
		assert.Equal(t, []string{models.DayDisabledMarker}, overrides[monday].Remove)
	})
}

func TestBook_CancelRoundTrip(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00", "10:00")

	available, err := svc.IsSlotAvailable(ctx, testBusiness, monday, "09:00")
	require.NoError(t, err)
	require.True(t, available)

	booking, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
		Name:    "Dana",
		Phone:   "050-1234567",
		Date:    monday,
		Time:    "09:00",
		Service: "haircut",
	})
	require.NoError(t, err)
	assert.Equal(t, 80.0, booking.Price)
	assert.Equal(t, api.CancelHandle{Date: monday, Time: "09:00", Name: "Dana", Phone: "050-1234567"}, booking.CancelHandle)

	week, err := svc.GetWeekView(ctx, testBusiness, false)
	require.NoError(t, err)
	day := dayOf(t, week, monday)
	require.Len(t, day.Times, 1)
	assert.Equal(t, api.SlotView{Time: "10:00", Available: true}, day.Times[0])

	// Cancel with a mismatched handle leaves the booking alone.
	err = svc.Cancel(ctx, testBusiness, &api.CancelRequest{
		Date: monday, Time: "09:00", Name: "Dana", Phone: "wrong",
	})
	assert.ErrorIs(t, err, response.ErrNotFound)

	err = svc.Cancel(ctx, testBusiness, &api.CancelRequest{
		Date: monday, Time: "09:00", Name: "Dana", Phone: "050-1234567",
	})
	require.NoError(t, err)

	available, err = svc.IsSlotAvailable(ctx, testBusiness, monday, "09:00")
	require.NoError(t, err)
	assert.True(t, available)

	week, err = svc.GetWeekView(ctx, testBusiness, false)
	require.NoError(t, err)
	day = dayOf(t, week, monday)
	require.Len(t, day.Times, 2)
	assert.Equal(t, "09:00", day.Times[0].Time)
	assert.Equal(t, "10:00", day.Times[1].Time)

	appointments, err := store.GetAppointments(ctx, testBusiness)
	require.NoError(t, err)
	assert.NotContains(t, appointments, monday)

	notifier.AssertExpectations(t)
}

func TestBook_Conflicts(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00", "10:00")

	_, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
		Name: "Dana", Phone: "050-1234567", Date: monday, Time: "09:00", Service: "haircut",
	})
	require.NoError(t, err)

	_, err = svc.Book(ctx, testBusiness, &api.BookingRequest{
		Name: "Yossi", Phone: "052-7654321", Date: monday, Time: "09:00", Service: "haircut",
	})
	assert.ErrorIs(t, err, response.ErrSlotNotAvailable)
}

func TestBook_EditedTimeHitsDuplicateDefense(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00", "10:00")

	_, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
		Name: "Dana", Phone: "050-1234567", Date: monday, Time: "09:00", Service: "haircut",
	})
	require.NoError(t, err)

	// Renaming another slot onto the booked time makes the resolver show
	// 09:00 available again (edited beats booked), so the duplicate check
	// has to catch the second booking.
	_, err = svc.OverrideAction(ctx, testBusiness, &api.OverrideActionRequest{
		Date:    monday,
		Action:  api.OverrideActionEdit,
		Time:    "10:00",
		NewTime: "09:00",
	})
	require.NoError(t, err)

	available, err := svc.IsSlotAvailable(ctx, testBusiness, monday, "09:00")
	require.NoError(t, err)
	require.True(t, available)

	_, err = svc.Book(ctx, testBusiness, &api.BookingRequest{
		Name: "Yossi", Phone: "052-7654321", Date: monday, Time: "09:00", Service: "haircut",
	})
	assert.ErrorIs(t, err, response.ErrAlreadyBooked)
}

func TestBook_Validation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00")

	t.Run("MissingField", func(t *testing.T) {
		_, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
			Name: "", Phone: "050-1234567", Date: monday, Time: "09:00", Service: "haircut",
		})
		assert.ErrorIs(t, err, response.ErrValidation)
	})

	t.Run("UnknownService", func(t *testing.T) {
		_, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
			Name: "Dana", Phone: "050-1234567", Date: monday, Time: "09:00", Service: "tattoo",
		})
		assert.ErrorIs(t, err, response.ErrUnknownService)
	})

	t.Run("MalformedTime", func(t *testing.T) {
		_, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
			Name: "Dana", Phone: "050-1234567", Date: monday, Time: "9:00", Service: "haircut",
		})
		assert.ErrorIs(t, err, response.ErrValidation)
	})
}

func TestIsSlotAvailable_OutsideWindow(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00")

	available, err := svc.IsSlotAvailable(ctx, testBusiness, "2026-03-09", "09:00")
	require.NoError(t, err)
	assert.False(t, available, "next Monday is outside the 7-day window")

	available, err = svc.IsSlotAvailable(ctx, testBusiness, "2026-03-01", "09:00")
	require.NoError(t, err)
	assert.False(t, available, "yesterday is outside the window")
}

func TestBook_MirrorsOverride(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	seedMondayTemplate(t, store, "09:00", "10:00")

	_, err := svc.Book(ctx, testBusiness, &api.BookingRequest{
		Name: "Dana", Phone: "050-1234567", Date: monday, Time: "09:00", Service: "haircut",
	})
	require.NoError(t, err)

	overrides, err := store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	require.Contains(t, overrides, monday)
	assert.Contains(t, overrides[monday].Remove, "09:00")
	require.Len(t, overrides[monday].Booked, 1)
	assert.Equal(t, models.BookedEntry{
		Time: "09:00", Name: "Dana", Phone: "050-1234567", Service: "haircut",
	}, overrides[monday].Booked[0])

	err = svc.Cancel(ctx, testBusiness, &api.CancelRequest{
		Date: monday, Time: "09:00", Name: "Dana", Phone: "050-1234567",
	})
	require.NoError(t, err)

	overrides, err = store.GetOverrides(ctx, testBusiness)
	require.NoError(t, err)
	assert.NotContains(t, overrides[monday].Remove, "09:00")
	assert.Contains(t, overrides[monday].Add, "09:00")
	assert.Empty(t, overrides[monday].Booked)
}
