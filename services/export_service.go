package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/facultystream/portal/configs"
	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const scheduleTemplate = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 40px; }
  h1 { font-size: 22px; border-bottom: 2px solid #1a3c6e; padding-bottom: 8px; }
  .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #ddd; font-size: 13px; }
  th { background: #1a3c6e; color: #fff; }
  .status { text-transform: capitalize; }
</style>
</head>
<body>
  <h1>Appointment Schedule for {{.Name}}</h1>
  <div class="meta">Generated {{.GeneratedAt}}</div>
  <table>
    <tr><th>Date</th><th>Time</th><th>Type</th><th>With</th><th>Where</th><th>Status</th></tr>
    {{range .Rows}}
    <tr>
      <td>{{.Date}}</td>
      <td>{{.Start}}-{{.End}}</td>
      <td>{{.Type}}</td>
      <td>{{.With}}</td>
      <td>{{.Where}}</td>
      <td class="status">{{.Status}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`

type scheduleRow struct {
	Date   string
	Start  string
	End    string
	Type   string
	With   string
	Where  string
	Status string
}

// GenerateSchedulePDF renders the user's upcoming appointments to a PDF
// and uploads it, returning the download URL.
func GenerateSchedulePDF(userID uuid.UUID) (string, error) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &NotFoundError{Resource: "user"}
		}
		return "", storeErr("load user", err)
	}

	appointments, err := GetUserAppointments(userID)
	if err != nil {
		return "", err
	}

	today := time.Now().Format(dateLayout)
	var rows []scheduleRow
	for _, appt := range appointments {
		if appt.Status.IsTerminal() || appt.Date < today {
			continue
		}
		with := appt.Faculty.FullName
		if appt.FacultyID == userID && len(appt.Students) > 0 {
			with = appt.Students[0].FullName
			if len(appt.Students) > 1 {
				with = fmt.Sprintf("%s +%d", with, len(appt.Students)-1)
			}
		}
		where := "online"
		if appt.MeetingType == models.MeetingPhysical && appt.Facility != nil {
			where = fmt.Sprintf("%s (%s)", appt.Facility.Name, appt.Facility.Location)
		} else if appt.MeetingLink != nil {
			where = *appt.MeetingLink
		}
		rows = append(rows, scheduleRow{
			Date:   appt.Date,
			Start:  appt.StartTime,
			End:    appt.EndTime,
			Type:   appt.MeetingType,
			With:   with,
			Where:  where,
			Status: string(appt.Status),
		})
	}

	htmlData, err := renderScheduleHTML(user.FullName, rows)
	if err != nil {
		return "", fmt.Errorf("render schedule HTML: %w", err)
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		return "", fmt.Errorf("generate schedule PDF: %w", err)
	}

	uploadURL, err := uploadSchedulePDF(pdfBytes, userID.String())
	if err != nil {
		return "", fmt.Errorf("upload schedule PDF: %w", err)
	}
	return uploadURL, nil
}

func renderScheduleHTML(name string, rows []scheduleRow) (string, error) {
	tmpl, err := template.New("schedule").Parse(scheduleTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		Name        string
		GeneratedAt string
		Rows        []scheduleRow
	}{
		Name:        name,
		GeneratedAt: time.Now().Format("January 2, 2006 15:04"),
		Rows:        rows,
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadSchedulePDF(pdfBytes []byte, userID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publicID := fmt.Sprintf("facultystream_schedules/%s-%d", userID, time.Now().Unix())
	resp, err := cld.Upload.Upload(ctx, bytes.NewReader(pdfBytes), uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
