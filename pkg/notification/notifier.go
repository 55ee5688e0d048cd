package notification

import "context"

// NotificationData carries one notification's recipient and template data
type NotificationData struct {
	To      string            // Recipient identifier (an email address for the email system)
	Subject string            // Optional: overrides the template subject
	Body    string            // Optional: used as the text body when the template has none
	Data    map[string]string // Template data (e.g. VerificationLink, Grievance)
}

// Notifier delivers a rendered notice over one notification system
type Notifier interface {
	Send(ctx context.Context, noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
