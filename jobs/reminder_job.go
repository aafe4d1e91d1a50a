package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/notifications"
)

// SendAppointmentReminders mails every participant of an accepted
// appointment starting roughly an hour from now. Runs every 5 minutes,
// so the [60, 65) minute window visits each appointment once.
func SendAppointmentReminders() {
	log.Println("Running job: SendAppointmentReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var candidates []models.Appointment
	err := database.DB.
		Preload("Faculty").
		Preload("Students").
		Preload("Facility").
		Where("status = ? AND date IN ?", models.AppointmentAccepted,
			[]string{lowerBound.Format("2006-01-02"), upperBound.Format("2006-01-02")}).
		Find(&candidates).Error
	if err != nil {
		log.Printf("Error checking for upcoming appointments: %v", err)
		return
	}

	for _, appointment := range candidates {
		startsAt, err := time.ParseInLocation("2006-01-02 15:04",
			appointment.Date+" "+appointment.StartTime, time.Local)
		if err != nil {
			log.Printf("Skipping reminder for %s: bad start time: %v", appointment.ID, err)
			continue
		}
		if startsAt.Before(lowerBound) || !startsAt.Before(upperBound) {
			continue
		}

		log.Printf("Sending reminder for appointment ID: %s", appointment.ID)

		location := "on campus"
		if appointment.MeetingType == models.MeetingPhysical && appointment.Facility != nil {
			location = fmt.Sprintf("at %s, %s", appointment.Facility.Name, appointment.Facility.Location)
		} else if appointment.MeetingLink != nil {
			location = fmt.Sprintf("online: <a href='%s'>Join Meeting</a>", *appointment.MeetingLink)
		}

		emailSubject := "Reminder: Your Appointment Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Appointment Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that your appointment is scheduled to start at %s, %s.</p>",
			startsAt.Format(time.Kitchen), location,
		)

		go notifications.SendEmail(appointment.Faculty.FullName, appointment.Faculty.Email, emailSubject, emailBody)
		for _, student := range appointment.Students {
			go notifications.SendEmail(student.FullName, student.Email, emailSubject, emailBody)
		}
	}
}
