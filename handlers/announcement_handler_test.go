package handlers

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Announcement{}, &models.Notification{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	t.Cleanup(func() {
		sqlDB.Close()
	})
}

func seedUser(t *testing.T, role string, active bool) *models.User {
	t.Helper()
	user := models.User{
		FullName: role,
		Email:    fmt.Sprintf("%s@test.local", uuid.NewString()),
		Password: "hashed",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

func notifiedIDs(t *testing.T) map[uuid.UUID]bool {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, database.DB.Find(&rows).Error)
	out := make(map[uuid.UUID]bool, len(rows))
	for _, n := range rows {
		out[n.RecipientID] = true
	}
	return out
}

func TestFanOutAnnouncementAudiences(t *testing.T) {
	tests := []struct {
		audience                 string
		wantStudent, wantFaculty bool
	}{
		{models.AudienceAll, true, true},
		{models.AudienceStudents, true, false},
		{models.AudienceFaculty, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.audience, func(t *testing.T) {
			setupTestDB(t)

			student := seedUser(t, models.RoleStudent, true)
			faculty := seedUser(t, models.RoleFaculty, true)
			inactive := seedUser(t, models.RoleStudent, false)
			author := seedUser(t, models.RoleAdmin, true)

			fanOutAnnouncement(&models.Announcement{
				Title:     "Exam week hours",
				Body:      "Library open until midnight.",
				Audience:  tt.audience,
				CreatedBy: author.ID,
			})

			got := notifiedIDs(t)
			assert.Equal(t, tt.wantStudent, got[student.ID], "student")
			assert.Equal(t, tt.wantFaculty, got[faculty.ID], "faculty")
			assert.False(t, got[inactive.ID], "inactive accounts are skipped")
			assert.False(t, got[author.ID], "authors do not notify themselves")
		})
	}
}
