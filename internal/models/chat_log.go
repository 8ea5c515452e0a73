package models

import "time"

// ChatLog is one completed request recorded in the chat ledger.
type ChatLog struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	Reply       string    `json:"reply"`
	ContextKind string    `json:"context_kind"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
}
