package models

import "time"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubCategory struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// Book belongs to one category and at most one subcategory.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Author        string    `json:"author"`
	Year          int       `json:"year"`
	Pages         int       `json:"pages"`
	ISBN          *string   `json:"isbn,omitempty"`
	URL           *string   `json:"url,omitempty"`
	FilePath      *string   `json:"file,omitempty"`
	Size          *int64    `json:"size,omitempty"`
	CoverPath     *string   `json:"cover,omitempty"`
	CategoryID    int64     `json:"category_id"`
	SubCategoryID *int64    `json:"sub_category_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (b Book) String() string { return b.Title }

func (b Book) HasFile() bool { return b.FilePath != nil && *b.FilePath != "" }

// RankedBook is a book with its derived view count.
type RankedBook struct {
	Book
	Views int64 `json:"views"`
}

type BookDetail struct {
	Book
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
}
