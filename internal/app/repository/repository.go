// Package repository is the single write and query surface over the
// relational store. Idempotent operations (follow, like) absorb duplicate
// writes as no-ops via unique indexes; non-idempotent duplicates surface
// as ErrConflict.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a unique constraint rejected a duplicate.
	ErrConflict = errors.New("conflict")
	// ErrValidation means the input was rejected before any write.
	ErrValidation = errors.New("validation failed")
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}
