package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAuthor
}

// CanAuthor reports whether the role may create and edit posts.
func (r Role) CanAuthor() bool {
	return r.Valid()
}

type Author struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
