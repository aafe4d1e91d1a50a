package services

import (
	"fmt"
	"testing"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global handle at a fresh in-memory database.
// Each test gets its own DSN so state never leaks between tests.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.Facility{},
		&models.FacilityBooking{},
		&models.Notification{},
		&models.Announcement{},
		&models.Document{},
		&models.Conversation{},
		&models.Message{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	database.DB = db
	t.Cleanup(func() {
		sqlDB.Close()
	})
}

func createTestUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s@test.local", uuid.NewString()),
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

func createTestFacility(t *testing.T, name string, slots []string) *models.Facility {
	t.Helper()
	facility, err := AddFacility(AddFacilityInput{
		Name:     name,
		Location: "Main Campus",
		Slots:    slots,
	})
	require.NoError(t, err)
	return facility
}

// bookTestAppointment wires a standard online appointment between one
// faculty member and one student.
func bookTestAppointment(t *testing.T, faculty, student *models.User, date, start, end string) *models.Appointment {
	t.Helper()
	appointment, err := CreateAppointment(CreateAppointmentInput{
		FacultyID:     faculty.ID,
		StudentIDs:    []uuid.UUID{student.ID},
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		MeetingType:   models.MeetingOnline,
		CreatedBy:     student.ID,
		CreatedByRole: student.Role,
		CreatedByName: student.FullName,
	})
	require.NoError(t, err)
	return appointment
}
