package notification

import (
	"context"
	"fmt"
)

// NotificationSystem represents a notification channel (e.g., email).
type NotificationSystem string

const (
	EmailSystem NotificationSystem = "email"
)

// NotificationManager manages notifiers and notification templates.
type NotificationManager struct {
	BaseUrl              string                                               // Base URL used in links built by callers
	notifiers            map[NotificationSystem]Notifier                      // Map of notification systems to their Notifier implementations
	notificationRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate // Registry for notification templates
}

// NewNotificationManager creates and returns a new NotificationManager.
func NewNotificationManager(baseUrl string) *NotificationManager {
	return &NotificationManager{
		BaseUrl:              baseUrl,
		notifiers:            make(map[NotificationSystem]Notifier),
		notificationRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}
}

// RegisterNotifier registers a notifier for a specific system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds a notification template to the registry.
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if noticeType == "" || system == "" {
		return fmt.Errorf("invalid input: notification type and system cannot be empty")
	}
	if template.Subject == "" {
		return fmt.Errorf("invalid template: subject cannot be empty")
	}
	if template.Text == "" && template.Html == "" {
		return fmt.Errorf("invalid template: text or html body is required")
	}

	if _, exists := nm.notificationRegistry[noticeType]; !exists {
		nm.notificationRegistry[noticeType] = make(map[NotificationSystem]NoticeTemplate)
	}
	nm.notificationRegistry[noticeType][system] = template
	return nil
}

// Send sends a notification over every system that has a template for the notice type.
func (nm *NotificationManager) Send(ctx context.Context, noticeType NoticeType, notification NotificationData) error {
	systemTemplates, exists := nm.notificationRegistry[noticeType]
	if !exists {
		return fmt.Errorf("no templates registered for notification type: %s", noticeType)
	}

	for system, template := range systemTemplates {
		notifier, exists := nm.notifiers[system]
		if !exists {
			return fmt.Errorf("no notifier registered for system: %s", system)
		}
		if err := notifier.Send(ctx, noticeType, notification, template); err != nil {
			return err
		}
	}

	return nil
}
