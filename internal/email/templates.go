package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// subjectFor maps an action to its mail subject. The switch is exhaustive
// over Action; the default only fires for values that failed Valid().
func subjectFor(action Action) string {
	switch action {
	case ActionBanned:
		return "Account Deactivation Notice - Digital Library"
	case ActionSuspended:
		return "Account Suspension Notice - Digital Library"
	case ActionDeleted:
		return "Account Removal Notice - Digital Library"
	case ActionRestored:
		return "Account Access Restored - Digital Library"
	case ActionRoleChanged:
		return "Account Role Updated - Digital Library"
	default:
		return "Important Account Notification - Digital Library"
	}
}

func descriptionFor(action Action, prettyUntil, newRole string) string {
	switch action {
	case ActionBanned:
		return "Your Digital Library account has been permanently deactivated."
	case ActionSuspended:
		return fmt.Sprintf("Your Digital Library account has been temporarily suspended until %s.", prettyUntil)
	case ActionDeleted:
		return "Your Digital Library account has been removed from our system."
	case ActionRestored:
		return "Your Digital Library account access has been successfully restored."
	case ActionRoleChanged:
		return fmt.Sprintf("Your Digital Library account role has been changed to %s.", newRole)
	default:
		return "Your account status has been updated."
	}
}

const verificationSubject = "Verify your Digital Library account"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Verify Your Digital Library Account</title></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; color: #333; background-color: #f8f9fa; padding: 40px 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; border: 1px solid #e8e8e8; padding: 40px;">
    <h1 style="font-weight: 300; color: #2c3e50;">Email Verification</h1>
    <p>Thank you for creating an account with <strong>Digital Library</strong>. To complete your registration, please use the verification code below:</p>
    <div style="font-size: 42px; font-weight: 700; letter-spacing: 8px; color: #2c3e50; font-family: 'Courier New', monospace; text-align: center; padding: 20px; background-color: #f8f9fa; border-radius: 6px; border: 1px dashed #e0e0e0;">{{.Code}}</div>
    <p>Enter this code on the verification page to activate your account.</p>
    <p style="margin: 25px 0 10px 0;">Prefer one-click verification?</p>
    <p><a href="{{.Link}}" style="background-color: #3498db; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: 600;">Verify Automatically</a></p>
    <p style="font-size: 14px; color: #7f8c8d;">This verification link expires in 24 hours.</p>
    <p style="font-size: 12px; color: #95a5a6;">If you did not request this verification, please disregard this email. For security reasons, do not share this code with anyone.</p>
  </div>
</body>
</html>`))

type accountActionView struct {
	Title       string
	Description string
	Reason      string
	PrettyUntil string
	AdminName   string
	UserName    string
}

var accountActionTemplate = template.Must(template.New("account_action").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; color: #333; background-color: #f8f9fa; padding: 40px 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; border: 1px solid #e8e8e8; padding: 40px;">
    <h1 style="font-weight: 300; color: #2c3e50;">Digital Library</h1>
    <h2 style="font-weight: 600; color: #1e293b;">Hello{{if .UserName}}, {{.UserName}}{{end}}</h2>
    <p>{{.Description}}</p>
    {{if .Reason}}<div style="background: #f8fafc; padding: 20px; border-radius: 8px; border-left: 4px solid #64748b;"><strong>Action Details</strong><p>{{.Reason}}</p></div>{{end}}
    {{if .PrettyUntil}}<div style="background: #fffbeb; padding: 20px; border-radius: 8px; border: 1px solid #fef3c7;"><strong>Suspension Period</strong><p>Until: {{.PrettyUntil}}</p></div>{{end}}
    <p style="font-size: 14px; color: #64748b;"><strong>Actioned by:</strong> {{if .AdminName}}{{.AdminName}}{{else}}Library Administration{{end}}</p>
    <p style="font-size: 12px; color: #95a5a6;">If you believe this action was taken in error, please contact our support team. This is an automated message; please do not reply.</p>
  </div>
</body>
</html>`))

func renderVerification(data VerificationData) (string, error) {
	var buf bytes.Buffer
	if err := verificationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render verification template: %w", err)
	}
	return buf.String(), nil
}

func renderAccountAction(data AccountActionData) (string, error) {
	var prettyUntil string
	if data.Until != nil {
		prettyUntil = data.Until.Format("January 2, 2006 3:04 PM")
	}

	view := accountActionView{
		Title:       subjectFor(data.Action),
		Description: descriptionFor(data.Action, prettyUntil, data.NewRole),
		Reason:      data.Reason,
		AdminName:   data.AdminName,
		UserName:    data.UserName,
	}
	if data.Action == ActionSuspended {
		view.PrettyUntil = prettyUntil
	}

	var buf bytes.Buffer
	if err := accountActionTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render account action template: %w", err)
	}
	return buf.String(), nil
}

// FormatUntil renders a suspension end the way the login denial message
// does, so mail and API agree on the wording.
func FormatUntil(until time.Time) string {
	return until.Format("January 2, 2006 3:04 PM")
}
