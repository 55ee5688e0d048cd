package notification

import (
	"context"
	"sync"
)

// SentNotice is one notice captured by MockNotifier
type SentNotice struct {
	Type         NoticeType
	Notification NotificationData
	Rendered     RenderedNotice
}

// MockNotifier records notices instead of delivering them.
// Set Err to make every Send fail.
type MockNotifier struct {
	mu                sync.Mutex
	SentNotifications []NotificationData
	Sent              []SentNotice
	Err               error
}

func (m *MockNotifier) Send(ctx context.Context, noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	rendered, err := Render(template, notification)
	if err != nil {
		return err
	}

	m.SentNotifications = append(m.SentNotifications, notification)
	m.Sent = append(m.Sent, SentNotice{Type: noticeType, Notification: notification, Rendered: rendered})
	return nil
}

// Count returns the number of notices recorded so far
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Last returns the most recently recorded notice
func (m *MockNotifier) Last() (SentNotice, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentNotice{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
