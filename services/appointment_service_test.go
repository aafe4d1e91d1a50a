package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointmentStatusByCreatorRole(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	byStudent := bookTestAppointment(t, faculty, student, "2026-09-10", "09:00", "10:00")
	assert.Equal(t, models.AppointmentPending, byStudent.Status)

	byFaculty, err := CreateAppointment(CreateAppointmentInput{
		FacultyID:     faculty.ID,
		StudentIDs:    []uuid.UUID{student.ID},
		Date:          "2026-09-10",
		StartTime:     "11:00",
		EndTime:       "12:00",
		MeetingType:   models.MeetingOnline,
		CreatedBy:     faculty.ID,
		CreatedByRole: faculty.Role,
		CreatedByName: faculty.FullName,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentAccepted, byFaculty.Status)
}

func TestCreateAppointmentGeneratesMeetingLink(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	appointment := bookTestAppointment(t, faculty, student, "2026-09-10", "09:00", "10:00")
	require.NotNil(t, appointment.MeetingLink)
	assert.Contains(t, *appointment.MeetingLink, "https://meet.google.com/")
}

func TestCreateAppointmentValidation(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)
	facility := createTestFacility(t, "Room 101", []string{"09:00-10:00"})
	link := "https://meet.google.com/abc-defg-hij"

	base := CreateAppointmentInput{
		FacultyID:     faculty.ID,
		StudentIDs:    []uuid.UUID{student.ID},
		Date:          "2026-09-10",
		StartTime:     "09:00",
		EndTime:       "10:00",
		MeetingType:   models.MeetingOnline,
		CreatedBy:     student.ID,
		CreatedByRole: student.Role,
		CreatedByName: student.FullName,
	}

	tests := []struct {
		name   string
		mutate func(in *CreateAppointmentInput)
	}{
		{"no students", func(in *CreateAppointmentInput) { in.StudentIDs = nil }},
		{"bad date", func(in *CreateAppointmentInput) { in.Date = "10/09/2026" }},
		{"bad start time", func(in *CreateAppointmentInput) { in.StartTime = "9am" }},
		{"start after end", func(in *CreateAppointmentInput) { in.StartTime, in.EndTime = "10:00", "09:00" }},
		{"zero length", func(in *CreateAppointmentInput) { in.EndTime = in.StartTime }},
		{"unknown meeting type", func(in *CreateAppointmentInput) { in.MeetingType = "telepathic" }},
		{"online with facility", func(in *CreateAppointmentInput) { in.FacilityID = &facility.ID }},
		{"physical without facility", func(in *CreateAppointmentInput) { in.MeetingType = models.MeetingPhysical }},
		{"physical with link", func(in *CreateAppointmentInput) {
			in.MeetingType = models.MeetingPhysical
			in.FacilityID = &facility.ID
			in.MeetingLink = &link
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := CreateAppointment(in)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestCreateAppointmentFacultyConflict(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	alice := createTestUser(t, "Alice", models.RoleStudent)
	bob := createTestUser(t, "Bob", models.RoleStudent)

	bookTestAppointment(t, faculty, alice, "2026-09-10", "10:00", "11:00")

	// Overlapping request from another student is rejected.
	_, err := CreateAppointment(CreateAppointmentInput{
		FacultyID:     faculty.ID,
		StudentIDs:    []uuid.UUID{bob.ID},
		Date:          "2026-09-10",
		StartTime:     "10:30",
		EndTime:       "11:30",
		MeetingType:   models.MeetingOnline,
		CreatedBy:     bob.ID,
		CreatedByRole: bob.Role,
		CreatedByName: bob.FullName,
	})
	var cErr *ConflictError
	require.ErrorAs(t, err, &cErr)

	// A back-to-back request goes through.
	_, err = CreateAppointment(CreateAppointmentInput{
		FacultyID:     faculty.ID,
		StudentIDs:    []uuid.UUID{bob.ID},
		Date:          "2026-09-10",
		StartTime:     "11:00",
		EndTime:       "12:00",
		MeetingType:   models.MeetingOnline,
		CreatedBy:     bob.ID,
		CreatedByRole: bob.Role,
		CreatedByName: bob.FullName,
	})
	assert.NoError(t, err)
}

func TestCreateAppointmentUnknownParties(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	in := CreateAppointmentInput{
		FacultyID:     uuid.New(),
		StudentIDs:    []uuid.UUID{student.ID},
		Date:          "2026-09-10",
		StartTime:     "09:00",
		EndTime:       "10:00",
		MeetingType:   models.MeetingOnline,
		CreatedBy:     student.ID,
		CreatedByRole: student.Role,
		CreatedByName: student.FullName,
	}
	_, err := CreateAppointment(in)
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	in.FacultyID = faculty.ID
	in.StudentIDs = []uuid.UUID{uuid.New()}
	_, err = CreateAppointment(in)
	assert.ErrorAs(t, err, &nfErr)

	// A student posing as the faculty side is rejected too.
	in.FacultyID = student.ID
	in.StudentIDs = []uuid.UUID{student.ID}
	_, err = CreateAppointment(in)
	assert.ErrorAs(t, err, &nfErr)
}

func TestPhysicalAppointmentRequiresActiveFacility(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)
	facility := createTestFacility(t, "Room 101", []string{"09:00-10:00"})

	_, err := UpdateFacilityStatus(facility.ID, models.FacilityMaintenance)
	require.NoError(t, err)

	_, err = CreateAppointment(CreateAppointmentInput{
		FacultyID:     faculty.ID,
		StudentIDs:    []uuid.UUID{student.ID},
		Date:          "2026-09-10",
		StartTime:     "09:00",
		EndTime:       "10:00",
		MeetingType:   models.MeetingPhysical,
		FacilityID:    &facility.ID,
		CreatedBy:     student.ID,
		CreatedByRole: student.Role,
		CreatedByName: student.FullName,
	})
	var cErr *ConflictError
	assert.ErrorAs(t, err, &cErr)
}

func TestConcurrentCreateAppointmentSingleWinner(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	students := []*models.User{
		createTestUser(t, "Alice", models.RoleStudent),
		createTestUser(t, "Bob", models.RoleStudent),
		createTestUser(t, "Carol", models.RoleStudent),
		createTestUser(t, "Dave", models.RoleStudent),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(students))
	for i, student := range students {
		wg.Add(1)
		go func(i int, student *models.User) {
			defer wg.Done()
			_, errs[i] = CreateAppointment(CreateAppointmentInput{
				FacultyID:     faculty.ID,
				StudentIDs:    []uuid.UUID{student.ID},
				Date:          "2026-09-10",
				StartTime:     "10:00",
				EndTime:       "11:00",
				MeetingType:   models.MeetingOnline,
				CreatedBy:     student.ID,
				CreatedByRole: student.Role,
				CreatedByName: student.FullName,
			})
		}(i, student)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		var cErr *ConflictError
		assert.ErrorAs(t, err, &cErr)
	}
	assert.Equal(t, 1, winners, "exactly one concurrent request may claim the slot")
}

func TestUpdateAppointmentStatusTransitions(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	tests := []struct {
		name string
		from models.AppointmentStatus
		to   models.AppointmentStatus
		ok   bool
	}{
		{"pending to accepted", models.AppointmentPending, models.AppointmentAccepted, true},
		{"pending to rejected", models.AppointmentPending, models.AppointmentRejected, true},
		{"pending to cancelled", models.AppointmentPending, models.AppointmentCancelled, true},
		{"accepted to cancelled", models.AppointmentAccepted, models.AppointmentCancelled, true},
		{"accepted to rejected", models.AppointmentAccepted, models.AppointmentRejected, false},
		{"accepted to pending", models.AppointmentAccepted, models.AppointmentPending, false},
		{"rejected to accepted", models.AppointmentRejected, models.AppointmentAccepted, false},
		{"cancelled to accepted", models.AppointmentCancelled, models.AppointmentAccepted, false},
		{"cancelled to pending", models.AppointmentCancelled, models.AppointmentPending, false},
	}

	hour := 8
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Separate time ranges keep the fixtures out of each
			// other's conflict windows.
			start := timeLabel(hour)
			end := timeLabel(hour + 1)
			hour++

			appointment := bookTestAppointment(t, faculty, student, "2026-10-01", start, end)
			require.NoError(t, database.DB.Model(appointment).Update("status", tt.from).Error)

			updated, err := UpdateAppointmentStatus(appointment.ID, tt.to, "faculty")
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
				require.NotNil(t, updated.UpdatedBy)
				assert.Equal(t, "faculty", *updated.UpdatedBy)
				return
			}
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestRescheduleAppointment(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	appointment := bookTestAppointment(t, faculty, student, "2026-09-10", "10:00", "11:00")

	// Shifting by half an hour overlaps the old range. The appointment's
	// own row must not count against it.
	moved, err := RescheduleAppointment(appointment.ID, "2026-09-10", "10:30", "11:30", "faculty")
	require.NoError(t, err)
	assert.Equal(t, "10:30", moved.StartTime)
	assert.Equal(t, "11:30", moved.EndTime)

	// Colliding with a different appointment still fails.
	bookTestAppointment(t, faculty, student, "2026-09-11", "09:00", "10:00")
	_, err = RescheduleAppointment(appointment.ID, "2026-09-11", "09:30", "10:30", "faculty")
	var cErr *ConflictError
	assert.ErrorAs(t, err, &cErr)

	// Terminal appointments stay put.
	_, err = UpdateAppointmentStatus(appointment.ID, models.AppointmentCancelled, "faculty")
	require.NoError(t, err)
	_, err = RescheduleAppointment(appointment.ID, "2026-09-12", "10:00", "11:00", "faculty")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDeleteAppointmentNotifiesParticipants(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)
	appointment := bookTestAppointment(t, faculty, student, "2026-09-10", "10:00", "11:00")

	require.NoError(t, DeleteAppointment(appointment.ID))

	_, err := GetAppointment(appointment.ID)
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)

	var count int64
	require.NoError(t, database.DB.Model(&models.Notification{}).
		Where("recipient_id IN ?", []uuid.UUID{faculty.ID, student.ID}).
		Count(&count).Error)
	assert.GreaterOrEqual(t, count, int64(2), "both sides get create and delete notices")
}

func TestGetUserAppointmentsMergesRoles(t *testing.T) {
	setupTestDB(t)

	chen := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	okafor := createTestUser(t, "Dr. Okafor", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	// Chen hosts one appointment and attends another as a participant
	// would; the union must not duplicate either.
	hosted := bookTestAppointment(t, chen, student, "2026-09-10", "10:00", "11:00")
	attended, err := CreateAppointment(CreateAppointmentInput{
		FacultyID:     okafor.ID,
		StudentIDs:    []uuid.UUID{chen.ID, student.ID},
		Date:          "2026-09-11",
		StartTime:     "14:00",
		EndTime:       "15:00",
		MeetingType:   models.MeetingOnline,
		CreatedBy:     okafor.ID,
		CreatedByRole: okafor.Role,
		CreatedByName: okafor.FullName,
	})
	require.NoError(t, err)

	appointments, err := GetUserAppointments(chen.ID)
	require.NoError(t, err)
	require.Len(t, appointments, 2)

	// Most recent date first.
	assert.Equal(t, attended.ID, appointments[0].ID)
	assert.Equal(t, hosted.ID, appointments[1].ID)
}

func TestGetFacultyAppointmentsOrdering(t *testing.T) {
	setupTestDB(t)

	faculty := createTestUser(t, "Dr. Chen", models.RoleFaculty)
	student := createTestUser(t, "Amina", models.RoleStudent)

	late := bookTestAppointment(t, faculty, student, "2026-09-10", "14:00", "15:00")
	early := bookTestAppointment(t, faculty, student, "2026-09-10", "09:00", "10:00")
	nextDay := bookTestAppointment(t, faculty, student, "2026-09-11", "09:00", "10:00")

	appointments, err := GetFacultyAppointments(faculty.ID)
	require.NoError(t, err)
	require.Len(t, appointments, 3)

	assert.Equal(t, nextDay.ID, appointments[0].ID)
	assert.Equal(t, early.ID, appointments[1].ID)
	assert.Equal(t, late.ID, appointments[2].ID)
}

func timeLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
