package repository

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ConfirmationRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error)
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
	// Replace retires every outstanding code of the user and stores code in one transaction
	Replace(ctx context.Context, code *entity.ConfirmationCode) error
}

type confirmationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationRepository(db database.PgxIface, log *zap.Logger) ConfirmationRepository {
	return &confirmationRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation")),
	}
}

func (r *confirmationRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.UsedAt,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("create confirmation code for %s: %w", code.UserID.String(), err)
	}

	return nil
}

// FindActiveByUser returns the newest unused, unexpired code of a user
func (r *confirmationRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, used_at, created_at
		FROM confirmation_codes
		WHERE user_id = $1
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code entity.ConfirmationCode
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.UsedAt,
		&code.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active confirmation code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active confirmation code for %s: %w", userID.String(), err)
	}

	return &code, nil
}

// MarkAsUsed consumes a code. A code that was already used counts as not found.
func (r *confirmationRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE confirmation_codes
		SET used_at = NOW()
		WHERE id = $1 AND used_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code as used",
			zap.Error(err),
			zap.String("code_id", id.String()),
		)
		return fmt.Errorf("mark confirmation code %s as used: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark confirmation code %s as used: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *confirmationRepository) Replace(ctx context.Context, code *entity.ConfirmationCode) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace confirmation code: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	retire := `
		UPDATE confirmation_codes
		SET used_at = NOW()
		WHERE user_id = $1 AND used_at IS NULL
	`

	if _, err := tx.Exec(ctx, retire, code.UserID); err != nil {
		r.log.Error("Failed to retire confirmation codes",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("retire confirmation codes for %s: %w", code.UserID.String(), err)
	}

	insert := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = tx.Exec(ctx, insert,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.UsedAt,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to store confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("store confirmation code for %s: %w", code.UserID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace confirmation code: %w", err)
	}

	return nil
}
