package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ambulance/internal/session"
	"ambulance/internal/utils"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is a user-visible message, the server-side equivalent of a toast.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, level NotificationLevel, message string)
}

const (
	maxPendingNotifications = 20
	notificationTTL         = time.Hour
)

// NotificationCenter logs every notification and keeps the most recent ones
// per user until the client drains them. Notifications without a user are
// only logged; undrained ones expire after notificationTTL.
type NotificationCenter struct {
	mu      sync.Mutex
	pending map[string][]Notification
	now     func() time.Time
}

func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{pending: map[string][]Notification{}, now: time.Now}
}

func (n *NotificationCenter) Notify(ctx context.Context, level NotificationLevel, message string) {
	userID, _ := session.UserID(ctx)
	utils.LogEventCtx(ctx, "notify", string(level), fmt.Sprintf("user_id=%s msg=%s", userID, message))

	if userID == "" {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now().UTC()
	n.expireLocked(now)
	list := append(n.pending[userID], Notification{Level: level, Message: message, At: now})
	if len(list) > maxPendingNotifications {
		list = list[len(list)-maxPendingNotifications:]
	}
	n.pending[userID] = list
}

// Drain returns and forgets the pending notifications of userID.
func (n *NotificationCenter) Drain(userID string) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending[userID]
	delete(n.pending, userID)
	if out == nil {
		return []Notification{}
	}
	return out
}

// expireLocked drops users whose newest notification is older than the TTL.
func (n *NotificationCenter) expireLocked(now time.Time) {
	for id, list := range n.pending {
		if len(list) == 0 || now.Sub(list[len(list)-1].At) > notificationTTL {
			delete(n.pending, id)
		}
	}
}
