package models

import "time"

type RequestKind string

const (
	KindOrder RequestKind = "order"
	KindSend  RequestKind = "send"
)

func (k RequestKind) Valid() bool { return k == KindOrder || k == KindSend }

// BookRequest is an OrderRequest or a SendRequest; Kind tells which table it lives in.
type BookRequest struct {
	ID          int64       `json:"id"`
	Kind        RequestKind `json:"kind"`
	UserID      string      `json:"user_id"`
	BookName    string      `json:"book_name"`
	Description string      `json:"description"`
	Author      string      `json:"author"`
	FilePath    *string     `json:"file,omitempty"`
	URL         *string     `json:"url,omitempty"`
	Reviewed    bool        `json:"reviewed"`
	CreatedAt   time.Time   `json:"created_at"`
}
