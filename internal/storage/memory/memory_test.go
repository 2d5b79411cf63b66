package memory

import (
	"context"
	"testing"

	"slots-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_MissingBusinessReadsEmpty(t *testing.T) {
	store := New()
	ctx := context.Background()

	schedule, err := store.GetWeeklySchedule(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, schedule)

	overrides, err := store.GetOverrides(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, overrides)

	appointments, err := store.GetAppointments(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestStorage_ReadsAreSnapshots(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.SaveOverrides(ctx, "shop", models.Overrides{
		"2026-03-02": {Add: []string{"13:00"}, Remove: []string{}},
	})
	require.NoError(t, err)

	first, err := store.GetOverrides(ctx, "shop")
	require.NoError(t, err)

	// Mutating a read snapshot must not leak into later reads.
	first["2026-03-02"].Add = append(first["2026-03-02"].Add, "14:00")
	first["2026-03-03"] = models.NewDayOverride()

	second, err := store.GetOverrides(ctx, "shop")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, []string{"13:00"}, second["2026-03-02"].Add)
}

func TestStorage_SaveTakesACopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	schedule := models.WeeklySchedule{"0": {"09:00"}}
	err := store.SaveWeeklySchedule(ctx, "shop", schedule)
	require.NoError(t, err)

	schedule["0"][0] = "08:00"

	got, err := store.GetWeeklySchedule(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, got["0"])
}

func TestStorage_SaveBookingStateWritesBoth(t *testing.T) {
	store := New()
	ctx := context.Background()

	appointments := models.Appointments{
		"2026-03-02": {{Name: "Dana", Phone: "050-1234567", Time: "09:00", Service: "haircut", Price: 80}},
	}
	overrides := models.Overrides{
		"2026-03-02": {
			Add:    []string{},
			Remove: []string{"09:00"},
			Booked: []models.BookedEntry{{Time: "09:00", Name: "Dana", Phone: "050-1234567", Service: "haircut"}},
		},
	}

	err := store.SaveBookingState(ctx, "shop", appointments, overrides)
	require.NoError(t, err)

	gotAppointments, err := store.GetAppointments(ctx, "shop")
	require.NoError(t, err)
	require.Len(t, gotAppointments["2026-03-02"], 1)
	assert.Equal(t, "Dana", gotAppointments["2026-03-02"][0].Name)

	gotOverrides, err := store.GetOverrides(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, gotOverrides["2026-03-02"].Remove)
	require.Len(t, gotOverrides["2026-03-02"].Booked, 1)
}
