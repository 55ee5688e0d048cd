// Package notification sends the portal's outbound email.
//
// A NotificationManager maps a NoticeType to one template per NotificationSystem
// and hands rendered notices to the Notifier registered for that system. Two
// email notifiers are provided: EmailNotifier relays through SMTP with
// wneessen/go-mail, SESNotifier through Amazon SES. MockNotifier records
// notices for tests.
//
//	nm, err := notification.NewNotificationManagerWithOptions(frontendURL,
//	    notification.WithSMTP(smtpConfig),
//	    notification.WithDefaultTemplates(),
//	)
//
//	err = nm.Send(ctx, notification.GrievanceNotice, notification.NotificationData{
//	    To:   "partner@example.com",
//	    Data: map[string]string{"Grievance": "You ate my fries."},
//	})
//
// Template subjects and text bodies use text/template; HTML bodies use
// html/template so user supplied values are escaped.
package notification
