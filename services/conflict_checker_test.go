package services

import (
	"testing"

	"github.com/facultystream/portal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"garbage", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.minutes, got, "input %q", tt.in)
	}
}

func TestTimesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical ranges", 540, 600, 540, 600, true},
		{"partial overlap", 540, 600, 570, 630, true},
		{"contained range", 540, 660, 570, 600, true},
		{"back to back", 540, 600, 600, 660, false},
		{"back to back reversed", 600, 660, 540, 600, false},
		{"disjoint", 540, 600, 720, 780, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timesOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, timesOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestIsFacultyTimeSlotAvailable(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)
	appointment := bookTestAppointment(t, faculty, student, "2026-09-10", "10:00", "11:00")

	// Same day, overlapping range.
	free, err := IsFacultyTimeSlotAvailable(faculty.ID, "2026-09-10", "10:30", "11:30", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, free)

	// Back to back after the existing one.
	free, err = IsFacultyTimeSlotAvailable(faculty.ID, "2026-09-10", "11:00", "12:00", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, free)

	// Same range on another day.
	free, err = IsFacultyTimeSlotAvailable(faculty.ID, "2026-09-11", "10:00", "11:00", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, free)

	// Excluding the appointment itself frees its own range.
	free, err = IsFacultyTimeSlotAvailable(faculty.ID, "2026-09-10", "10:00", "11:00", appointment.ID)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestTerminalAppointmentsDoNotBlockSlots(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)
	appointment := bookTestAppointment(t, faculty, student, "2026-09-10", "10:00", "11:00")

	_, err := UpdateAppointmentStatus(appointment.ID, models.AppointmentCancelled, "faculty")
	require.NoError(t, err)

	free, err := IsFacultyTimeSlotAvailable(faculty.ID, "2026-09-10", "10:00", "11:00", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, free, "cancelled appointments must release the slot")
}
