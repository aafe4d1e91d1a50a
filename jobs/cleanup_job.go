package jobs

import (
	"log"
	"time"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/services"
)

// CancelStalePendingAppointments cancels pending requests whose start
// time has already passed without the faculty member acting on them.
func CancelStalePendingAppointments() {
	log.Println("Running job: CancelStalePendingAppointments...")

	now := time.Now()
	today := now.Format("2006-01-02")

	var stale []models.Appointment
	err := database.DB.
		Where("status = ? AND date <= ?", models.AppointmentPending, today).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for stale pending appointments: %v", err)
		return
	}

	cancelled := 0
	for _, appointment := range stale {
		startsAt, err := time.ParseInLocation("2006-01-02 15:04",
			appointment.Date+" "+appointment.StartTime, time.Local)
		if err != nil || startsAt.After(now) {
			continue
		}
		if _, err := services.CancelAppointment(appointment.ID); err != nil {
			log.Printf("Failed to cancel stale appointment %s: %v", appointment.ID, err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("Cancelled %d stale pending appointment(s).", cancelled)
	}
}
