package models

import (
	"time"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
)

const DefaultPhoto = "default_photo.jpg"

func (r Role) Valid() bool { return r == RoleStudent || r == RoleLibrarian }

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Photo        string    `json:"photo"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) String() string { return u.Username }

func (u User) FullName() string { return u.FirstName + " " + u.LastName }

func (u User) CanAddBook() bool { return u.Role == RoleLibrarian }

func (u User) CanOrderBook() bool { return u.Role == RoleStudent }
