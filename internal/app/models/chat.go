package models

import "time"

// ChatThread defines a conversation listing entry based on the
// 'chat_threads' table
type ChatThread struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	PeerID        int64     `json:"peerId" db:"peer_id"`
	LastMessage   string    `json:"lastMessage" db:"last_message"`
	LastMessageAt time.Time `json:"lastMessageAt" db:"last_message_at"`
	Unread        int       `json:"unread" db:"unread"`

	Peer *Profile `json:"peer,omitempty"` // Relation, no db tag
}
