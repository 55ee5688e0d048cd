package notification

import (
	"context"
	"errors"
	"testing"
)

func TestNewNotificationManager(t *testing.T) {
	nm := NewNotificationManager("")
	if nm == nil {
		t.Fatal("NewNotificationManager returned nil")
	}
	if nm.notifiers == nil {
		t.Error("notifiers map not initialized")
	}
	if nm.notificationRegistry == nil {
		t.Error("notificationRegistry map not initialized")
	}
}

func TestRegisterNotifier(t *testing.T) {
	nm := NewNotificationManager("")
	mockNotifier := &MockNotifier{}

	nm.RegisterNotifier(EmailSystem, mockNotifier)
	if n, exists := nm.notifiers[EmailSystem]; !exists {
		t.Error("Notifier not registered")
	} else if n != mockNotifier {
		t.Error("Wrong notifier registered")
	}

	// Overwrite
	newMockNotifier := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, newMockNotifier)
	if n := nm.notifiers[EmailSystem]; n != newMockNotifier {
		t.Error("Notifier not overwritten")
	}
}

func TestRegisterNotification(t *testing.T) {
	nm := NewNotificationManager("")

	tests := []struct {
		name        string
		notifType   NoticeType
		system      NotificationSystem
		template    NoticeTemplate
		shouldError bool
	}{
		{
			name:      "Valid registration with both Text and Html",
			notifType: SMTPCheckNotice,
			system:    EmailSystem,
			template:  NoticeTemplate{Subject: "Example Email", Text: "This is an example email", Html: "<p>This is an example email</p>"},
		},
		{
			name:      "Valid registration with Text only",
			notifType: SMTPCheckNotice,
			system:    EmailSystem,
			template:  NoticeTemplate{Subject: "Example Email", Text: "This is an example email"},
		},
		{
			name:      "Valid registration with Html only",
			notifType: SMTPCheckNotice,
			system:    EmailSystem,
			template:  NoticeTemplate{Subject: "Example Email", Html: "<p>This is an example email</p>"},
		},
		{
			name:        "Empty notification type",
			notifType:   "",
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Example Email", Text: "This is an example email"},
			shouldError: true,
		},
		{
			name:        "Empty system",
			notifType:   SMTPCheckNotice,
			system:      "",
			template:    NoticeTemplate{Subject: "Example Email", Text: "This is an example email"},
			shouldError: true,
		},
		{
			name:        "Empty subject",
			notifType:   SMTPCheckNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "", Text: "This is an example email"},
			shouldError: true,
		},
		{
			name:        "No content",
			notifType:   SMTPCheckNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Example Email"},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := nm.RegisterNotification(tt.notifType, tt.system, tt.template)
			if tt.shouldError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.shouldError {
				if template, exists := nm.notificationRegistry[tt.notifType][tt.system]; !exists {
					t.Error("Template not registered")
				} else if template != tt.template {
					t.Errorf("Wrong template registered. Got %+v, want %+v", template, tt.template)
				}
			}
		})
	}
}

func TestSend(t *testing.T) {
	nm := NewNotificationManager("")
	mockEmailNotifier := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, mockEmailNotifier)

	err := nm.RegisterNotification(SMTPCheckNotice, EmailSystem, NoticeTemplate{Subject: "Example Notification", Text: "Hello {{.Name}}", Html: "<p>Hello {{.Name}}</p>"})
	if err != nil {
		t.Fatalf("Failed to register email notification: %v", err)
	}

	testData := NotificationData{
		To:   "user@example.com",
		Data: map[string]string{"Name": "<b>Sam</b>"},
	}

	if err := nm.Send(context.Background(), SMTPCheckNotice, testData); err != nil {
		t.Fatalf("Failed to send notification: %v", err)
	}

	sent, ok := mockEmailNotifier.Last()
	if !ok {
		t.Fatal("Email notification not sent")
	}
	if sent.Notification.To != testData.To {
		t.Errorf("Wrong recipient: %s", sent.Notification.To)
	}
	if sent.Rendered.Subject != "Example Notification" {
		t.Errorf("Wrong subject: %s", sent.Rendered.Subject)
	}
	if sent.Rendered.Text != "Hello <b>Sam</b>" {
		t.Errorf("Text body should not be escaped, got %q", sent.Rendered.Text)
	}
	if sent.Rendered.Html != "<p>Hello &lt;b&gt;Sam&lt;/b&gt;</p>" {
		t.Errorf("Html body should be escaped, got %q", sent.Rendered.Html)
	}
}

func TestSendErrors(t *testing.T) {
	nm := NewNotificationManager("")

	err := nm.Send(context.Background(), "unregistered", NotificationData{})
	if err == nil {
		t.Error("Expected error for unregistered notification type")
	}

	err = nm.RegisterNotification(SMTPCheckNotice, EmailSystem, NoticeTemplate{Subject: "Example Notification", Text: "body"})
	if err != nil {
		t.Fatalf("Failed to register notification: %v", err)
	}

	err = nm.Send(context.Background(), SMTPCheckNotice, NotificationData{})
	if err == nil {
		t.Error("Expected error for missing notifier")
	} else if err.Error() != "no notifier registered for system: email" {
		t.Errorf("Unexpected error message: %v", err)
	}

	relayErr := errors.New("535 authentication failed")
	nm.RegisterNotifier(EmailSystem, &MockNotifier{Err: relayErr})
	err = nm.Send(context.Background(), SMTPCheckNotice, NotificationData{To: "user@example.com"})
	if !errors.Is(err, relayErr) {
		t.Errorf("Expected notifier error, got %v", err)
	}
}
