package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.ChoiceRepository = (*pgChoiceRepository)(nil)

type pgChoiceRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgChoiceRepository creates a new postgres-backed ChoiceRepository.
func NewPgChoiceRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.ChoiceRepository {
	return &pgChoiceRepository{
		pool:   pool,
		logger: logger.Named("PgChoiceRepo"),
	}
}

const (
	createChoiceQuery = `
INSERT INTO choices (page_id, text, next_page_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`

	deleteChoiceQuery = `DELETE FROM choices WHERE id = $1`
)

const fkViolationCode = "23503"

// Create inserts a choice on an existing page. The target page is not
// validated: next_page_id may point into another story or at nothing,
// readers resolve it at follow time.
func (r *pgChoiceRepository) Create(ctx context.Context, choice *models.Choice) error {
	logFields := []zap.Field{
		zap.Int64("pageID", choice.PageID),
		zap.Int64("nextPageID", choice.NextPageID),
	}
	r.logger.Debug("Creating choice", logFields...)

	choice.CreatedAt = time.Now().UTC()
	err := r.pool.QueryRow(ctx, createChoiceQuery,
		choice.PageID,
		choice.Text,
		choice.NextPageID,
		choice.CreatedAt,
	).Scan(&choice.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolationCode {
			r.logger.Warn("Source page not found for choice", logFields...)
			return models.ErrNotFound
		}
		r.logger.Error("Failed to create choice", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create choice: %w", err)
	}

	r.logger.Info("Choice created", append(logFields, zap.Int64("choiceID", choice.ID))...)
	return nil
}

// Delete removes a choice by id.
func (r *pgChoiceRepository) Delete(ctx context.Context, id int64) error {
	logFields := []zap.Field{zap.Int64("choiceID", id)}

	tag, err := r.pool.Exec(ctx, deleteChoiceQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete choice", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to delete choice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Choice not found for deletion", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Choice deleted", logFields...)
	return nil
}
