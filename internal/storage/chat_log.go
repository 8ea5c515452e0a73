package storage

import (
	"context"
	"database/sql"
	"time"

	"chatlens/internal/models"
)

// AppendChatLog records one completed request in the ledger.
func AppendChatLog(ctx context.Context, db *sql.DB, entry models.ChatLog) (int64, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO chat_logs (message, reply, context_kind, file_name, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Message, entry.Reply, entry.ContextKind, entry.FileName, createdAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentChatLogs returns the latest entries, newest first.
func RecentChatLogs(ctx context.Context, db *sql.DB, limit int) ([]*models.ChatLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, message, reply, context_kind, file_name, created_at
		FROM chat_logs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ChatLog
	for rows.Next() {
		var entry models.ChatLog
		if err := rows.Scan(&entry.ID, &entry.Message, &entry.Reply, &entry.ContextKind, &entry.FileName, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}
