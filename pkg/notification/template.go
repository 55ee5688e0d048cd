package notification

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"
)

// NoticeType identifies a kind of notice (e.g. partner verification, grievance)
type NoticeType string

const (
	PartnerVerificationNotice NoticeType = "partner_verification"
	GrievanceNotice           NoticeType = "grievance"
	SMTPCheckNotice           NoticeType = "smtp_check"
)

// NoticeTemplate holds the subject and bodies of a notice.
// Subject and Text are rendered with text/template, Html with html/template.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// RenderedNotice is a notice ready to hand to a mail relay
type RenderedNotice struct {
	Subject string
	Text    string
	Html    string
}

// Render executes the template against the notification data
func Render(noticeTemplate NoticeTemplate, notification NotificationData) (RenderedNotice, error) {
	var out RenderedNotice
	var err error

	out.Subject = notification.Subject
	if out.Subject == "" {
		if out.Subject, err = renderText("subject", noticeTemplate.Subject, notification.Data); err != nil {
			return out, err
		}
	}

	if noticeTemplate.Text != "" {
		if out.Text, err = renderText("text", noticeTemplate.Text, notification.Data); err != nil {
			return out, err
		}
	} else {
		out.Text = notification.Body
	}

	if noticeTemplate.Html != "" {
		tmpl, err := htmltemplate.New("html").Option("missingkey=zero").Parse(noticeTemplate.Html)
		if err != nil {
			return out, err
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, notification.Data); err != nil {
			return out, err
		}
		out.Html = buf.String()
	}

	return out, nil
}

func renderText(name, text string, data map[string]string) (string, error) {
	if text == "" {
		return "", nil
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
