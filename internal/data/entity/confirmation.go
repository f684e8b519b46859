package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConfirmationCode struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	CodeHash  string     `db:"code_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
}
