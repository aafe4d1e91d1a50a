package notifications

import (
	"fmt"
	"testing"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	t.Cleanup(func() {
		sqlDB.Close()
	})
}

func TestNotifyAndList(t *testing.T) {
	setupTestDB(t)

	recipient := uuid.New()
	other := uuid.New()
	apptID := uuid.New()

	Notify(recipient, "Appointment accepted", models.NotificationAppointment, &apptID)
	Notify(recipient, "Room booked", models.NotificationFacility, nil)
	Notify(other, "Not yours", models.NotificationSystem, nil)

	listed, err := GetUserNotifications(recipient)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, n := range listed {
		assert.Equal(t, recipient, n.RecipientID)
		assert.False(t, n.Read)
	}
}

func TestMarkRead(t *testing.T) {
	setupTestDB(t)

	recipient := uuid.New()
	stranger := uuid.New()

	Notify(recipient, "Appointment accepted", models.NotificationAppointment, nil)
	listed, err := GetUserNotifications(recipient)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Someone else's mark attempt is a silent no-op.
	require.NoError(t, MarkRead(listed[0].ID, stranger))
	listed, err = GetUserNotifications(recipient)
	require.NoError(t, err)
	assert.False(t, listed[0].Read)

	require.NoError(t, MarkRead(listed[0].ID, recipient))
	listed, err = GetUserNotifications(recipient)
	require.NoError(t, err)
	assert.True(t, listed[0].Read)
}
