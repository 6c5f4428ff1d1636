package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names carried in EmailJob.Template.
const (
	VerificationCode = "verification_code"
	PasswordReset    = "password_reset"
)

var verificationHTML = template.Must(template.New(VerificationCode).Parse(`
<p>Your verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">{{.Code}}</p>
<p>This code expires in {{.ExpiresIn}}.</p>
`))

var passwordResetHTML = template.Must(template.New(PasswordReset).Parse(`
<p>We received a request to reset your password for <strong>{{.AppName}}</strong>.</p>
<p>If you made this request, click the button below. This link expires in {{.ExpiresIn}}.</p>
<p><a href="{{.Link}}" style="display:inline-block;padding:10px 16px;background:#2563eb;color:#fff;text-decoration:none;border-radius:6px">Reset password</a></p>
<p>If the button doesn't work, copy and paste this URL into your browser:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not request a password reset, you can safely ignore this email.</p>
`))

// Render returns the subject, plain text, and HTML body for a template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	appName := str(data, "AppName", "Shoply")
	switch name {
	case VerificationCode:
		subject = fmt.Sprintf("%s - Your verification code", appName)
		text = fmt.Sprintf("Your verification code is: %s\n\nThis code expires in %s.", str(data, "Code", ""), str(data, "ExpiresIn", "5 minutes"))
		html, err = render(verificationHTML, data)
	case PasswordReset:
		subject = fmt.Sprintf("%s - Password reset request", appName)
		text = fmt.Sprintf("We received a request to reset your password.\n\nIf you made this request, open the link below. This link expires soon.\n\n%s\n\nIf you did not request a password reset, you can ignore this email.", str(data, "Link", ""))
		html, err = render(passwordResetHTML, data)
	default:
		err = fmt.Errorf("unknown email template %q", name)
	}
	return subject, text, html, err
}

func render(t *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func str(data map[string]any, key, def string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}
