// Package realtime delivers change notifications for store tables. The feed
// uses them purely as reload triggers; payloads are never diffed.
package realtime

import "time"

// Action is the kind of store mutation an event describes
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Event represents a single change notification for a table
type Event struct {
	Table     string    `json:"table"`
	Action    Action    `json:"action"`
	RecordID  int64     `json:"recordId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscription is a live stream of events for one table. Events() never
// delivers after Unsubscribe returns.
type Subscription interface {
	Events() <-chan Event
	Unsubscribe()
}

// Source hands out table subscriptions
type Source interface {
	Subscribe(table string) (Subscription, error)
	Close() error
}
