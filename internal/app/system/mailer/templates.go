// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// AssignmentEmailData holds data for the surveyor-assigned notification.
type AssignmentEmailData struct {
	SiteName     string
	SurveyorName string
	Organization string
	PolicyNumber string
	PropertyAddr string
	Deadline     string // already formatted, e.g. "02 Jan 2006"
}

// BuildAssignmentEmail creates the "you have been assigned" email with both
// HTML and text bodies.
func BuildAssignmentEmail(data AssignmentEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("%s: survey assignment for policy %s", data.SiteName, data.PolicyNumber),
		TextBody: buildAssignmentText(data),
		HTMLBody: buildAssignmentHTML(data),
	}
}

func buildAssignmentText(data AssignmentEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.SurveyorName))
	buf.WriteString(fmt.Sprintf("You have been assigned as the %s surveyor for policy %s.\n\n", data.Organization, data.PolicyNumber))
	buf.WriteString(fmt.Sprintf("Property: %s\n", data.PropertyAddr))
	if data.Deadline != "" {
		buf.WriteString(fmt.Sprintf("Survey deadline: %s\n", data.Deadline))
	}
	buf.WriteString("\nPlease sign in to review the assignment details and confirm acceptance.\n")
	return buf.String()
}

func buildAssignmentHTML(data AssignmentEmailData) string {
	tmpl := template.Must(template.New("assignment").Parse(assignmentHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// BothAssignedEmailData holds data for the "both surveyors assigned" update
// sent to the policy holder.
type BothAssignedEmailData struct {
	SiteName     string
	HolderName   string
	PolicyNumber string
	AMMCName     string
	NIAName      string
}

// BuildBothAssignedEmail creates the policy-holder update sent once both
// organization slots are filled.
func BuildBothAssignedEmail(data BothAssignedEmailData) Email {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.HolderName))
	buf.WriteString(fmt.Sprintf("Both survey organizations have assigned surveyors to your policy %s:\n\n", data.PolicyNumber))
	buf.WriteString(fmt.Sprintf("  AMMC: %s\n", data.AMMCName))
	buf.WriteString(fmt.Sprintf("  NIA:  %s\n\n", data.NIAName))
	buf.WriteString("The surveyors will contact you to schedule their property visits.\n")

	return Email{
		Subject:  fmt.Sprintf("%s: surveyors assigned to policy %s", data.SiteName, data.PolicyNumber),
		TextBody: buf.String(),
	}
}

// ReportSubmittedEmailData holds data for the report-submission progress
// update.
type ReportSubmittedEmailData struct {
	SiteName         string
	HolderName       string
	PolicyNumber     string
	Organization     string
	CompletionStatus int
}

// BuildReportSubmittedEmail creates the progress update sent after a survey
// report comes in.
func BuildReportSubmittedEmail(data ReportSubmittedEmailData) Email {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.HolderName))
	buf.WriteString(fmt.Sprintf("The %s survey report for your policy %s has been submitted.\n\n", data.Organization, data.PolicyNumber))
	if data.CompletionStatus == 100 {
		buf.WriteString("Both survey reports are now complete. Your application moves to report consolidation.\n")
	} else {
		buf.WriteString("We are still waiting on the second organization's report.\n")
	}

	return Email{
		Subject:  fmt.Sprintf("%s: survey progress for policy %s", data.SiteName, data.PolicyNumber),
		TextBody: buf.String(),
	}
}

const assignmentHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Survey Assignment</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px;">
              <p style="margin: 0 0 16px; font-size: 15px; color: #111827;">Dear {{.SurveyorName}},</p>
              <p style="margin: 0 0 16px; font-size: 15px; color: #111827;">
                You have been assigned as the <strong>{{.Organization}}</strong> surveyor for policy
                <strong>{{.PolicyNumber}}</strong>.
              </p>
              <p style="margin: 0 0 8px; font-size: 14px; color: #374151;">Property: {{.PropertyAddr}}</p>
              {{if .Deadline}}<p style="margin: 0 0 16px; font-size: 14px; color: #374151;">Survey deadline: {{.Deadline}}</p>{{end}}
              <p style="margin: 0; font-size: 14px; color: #6b7280;">
                Please sign in to review the assignment details and confirm acceptance.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
