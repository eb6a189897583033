package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"13:30", 810, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := MinutesOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestBusinessHoursWindows(t *testing.T) {
	closed := BusinessHours{Kind: HoursClosed}
	assert.Empty(t, closed.Windows())

	continuous := BusinessHours{
		Kind:       HoursContinuous,
		Continuous: &HoursWindow{Open: "09:00", Close: "18:00"},
	}
	require.Len(t, continuous.Windows(), 1)
	assert.Equal(t, "09:00", continuous.Windows()[0].Open)

	split := BusinessHours{
		Kind:      HoursSplit,
		Morning:   &HoursWindow{Open: "09:00", Close: "13:00"},
		Afternoon: &HoursWindow{Open: "15:00", Close: "19:00"},
	}
	ws := split.Windows()
	require.Len(t, ws, 2)
	assert.Equal(t, "13:00", ws[0].Close)
	assert.Equal(t, "15:00", ws[1].Open)
}

func TestBusinessHoursValidate(t *testing.T) {
	assert.NoError(t, BusinessHours{Kind: HoursClosed}.Validate())

	assert.NoError(t, BusinessHours{
		Kind:       HoursContinuous,
		Continuous: &HoursWindow{Open: "09:00", Close: "18:00"},
	}.Validate())

	// Missing window for the declared kind.
	assert.Error(t, BusinessHours{Kind: HoursContinuous}.Validate())
	assert.Error(t, BusinessHours{
		Kind:    HoursSplit,
		Morning: &HoursWindow{Open: "09:00", Close: "13:00"},
	}.Validate())

	// Close at or before open.
	assert.Error(t, BusinessHours{
		Kind:       HoursContinuous,
		Continuous: &HoursWindow{Open: "18:00", Close: "09:00"},
	}.Validate())
	assert.Error(t, BusinessHours{
		Kind:       HoursContinuous,
		Continuous: &HoursWindow{Open: "09:00", Close: "09:00"},
	}.Validate())

	// Afternoon opening before the morning closes.
	assert.Error(t, BusinessHours{
		Kind:      HoursSplit,
		Morning:   &HoursWindow{Open: "09:00", Close: "14:00"},
		Afternoon: &HoursWindow{Open: "13:00", Close: "19:00"},
	}.Validate())

	assert.Error(t, BusinessHours{Kind: "weird"}.Validate())
}

func TestAtDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, loc)
	got := AtDate(date, 9*60+30, loc)

	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, date.Day(), got.Day())
	assert.Equal(t, loc, got.Location())
}

func TestAppointmentBlocking(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * time.Minute)
	past := now.Add(-5 * time.Minute)

	confirmed := Appointment{Status: StatusConfirmed}
	assert.True(t, confirmed.Blocking(now))

	livePending := Appointment{Status: StatusPending, ExpiresAt: &future}
	assert.True(t, livePending.Blocking(now))
	assert.False(t, livePending.HoldExpired(now))

	stalePending := Appointment{Status: StatusPending, ExpiresAt: &past}
	assert.False(t, stalePending.Blocking(now))
	assert.True(t, stalePending.HoldExpired(now))

	cancelled := Appointment{Status: StatusCancelled}
	assert.False(t, cancelled.Blocking(now))
	assert.True(t, cancelled.Status.Terminal())
}
