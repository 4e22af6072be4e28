package models

import "time"

// ViewEvent and DownloadEvent are append-only; they are never updated.
type ViewEvent struct {
	ID       int64     `json:"id"`
	BookID   int64     `json:"book_id"`
	UserID   string    `json:"user_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

type DownloadEvent struct {
	ID           int64     `json:"id"`
	BookID       int64     `json:"book_id"`
	UserID       string    `json:"user_id"`
	DownloadedAt time.Time `json:"downloaded_at"`
}
