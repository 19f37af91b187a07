package notify

import (
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/websocket"
)

// Notifier is the notification surface: a short human-readable
// title/description pair emitted after each successful mutation.
// Purely observational, nothing consumes a return value.
type Notifier interface {
	Notify(title, description string)
}

// LogNotifier writes notifications to the application log
type LogNotifier struct {
	Logger *logger.Logger
}

func (n *LogNotifier) Notify(title, description string) {
	n.Logger.Info("Notification",
		logger.String("title", title),
		logger.String("description", description),
	)
}

// HubNotifier pushes notifications to connected web clients, which
// render them as toasts
type HubNotifier struct {
	Hub *websocket.Hub
}

func (n *HubNotifier) Notify(title, description string) {
	n.Hub.Broadcast(websocket.Message{
		Type: "notification",
		Data: map[string]string{
			"title":       title,
			"description": description,
		},
	})
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(title, description string) {
	for _, n := range m {
		n.Notify(title, description)
	}
}

// Nop discards notifications, for tests
type Nop struct{}

func (Nop) Notify(string, string) {}
