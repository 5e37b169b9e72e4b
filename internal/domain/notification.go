package domain

// Notification levels surfaced to the storefront UI.
const (
	NotificationSuccess = "success"
	NotificationInfo    = "info"
	NotificationError   = "error"
)

// Notification is a user-facing message produced by a state mutation,
// returned alongside the mutation result.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SuccessNotification builds a success-level notification.
func SuccessNotification(message string) Notification {
	return Notification{Level: NotificationSuccess, Message: message}
}

// InfoNotification builds an info-level notification.
func InfoNotification(message string) Notification {
	return Notification{Level: NotificationInfo, Message: message}
}

// ErrorNotification builds an error-level notification.
func ErrorNotification(message string) Notification {
	return Notification{Level: NotificationError, Message: message}
}
