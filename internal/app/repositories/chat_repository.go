package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fringe-app/fringe/internal/app/models"
)

// ChatRepository handles database operations for chat threads
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// ListByUser retrieves all chat threads for a user with the peer profile
// joined, most recent message first.
func (r *ChatRepository) ListByUser(ctx context.Context, userID int64) ([]models.ChatThread, error) {
	query := `
		SELECT
			t.id, t.user_id, t.peer_id, t.last_message, t.last_message_at, t.unread,
			u.id, u.email, u.full_name, u.role, u.avatar_url
		FROM chat_threads t
		JOIN profiles u ON u.id = t.peer_id
		WHERE t.user_id = $1
		ORDER BY t.last_message_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying chat threads: %w", err)
	}
	defer rows.Close()

	threads := []models.ChatThread{}
	for rows.Next() {
		var thread models.ChatThread
		var peer models.Profile
		err := rows.Scan(
			&thread.ID,
			&thread.UserID,
			&thread.PeerID,
			&thread.LastMessage,
			&thread.LastMessageAt,
			&thread.Unread,
			&peer.ID,
			&peer.Email,
			&peer.FullName,
			&peer.Role,
			&peer.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat thread row: %w", err)
		}
		thread.Peer = &peer
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat thread rows: %w", err)
	}

	return threads, nil
}

// Create inserts a chat thread. An existing (user, peer) thread is left
// untouched and its id returned.
func (r *ChatRepository) Create(ctx context.Context, thread *models.ChatThread) (int64, error) {
	query := `
		INSERT INTO chat_threads (user_id, peer_id, last_message, last_message_at, unread)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, peer_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		thread.UserID, thread.PeerID, thread.LastMessage, thread.LastMessageAt, thread.Unread,
	).Scan(&thread.ID)
	if err != nil {
		return 0, fmt.Errorf("error creating chat thread: %w", err)
	}
	return thread.ID, nil
}
