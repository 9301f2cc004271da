package storage

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrSlugTaken  = errors.New("slug already taken")
	ErrEmailTaken = errors.New("email already taken")
)
