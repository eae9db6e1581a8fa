package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dactasg/proposal-architect/internal/models"
)

// ProposalRepository работает с таблицами proposals и reference_docs.
// Система только пишет: insert и update, чтений нет.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт экземпляр.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// ErrProposalNotFound сигнализирует, что строка для обновления не нашлась.
var ErrProposalNotFound = errors.New("proposal not found")

// Create сохраняет запись о заявке до отправки вебхука.
func (r *ProposalRepository) Create(ctx context.Context, record *models.ProposalRecord) error {
	query := `
		INSERT INTO proposals (submission_id, client_name, service_types, status, rfp_filename, tone, include_pricing, include_timeline, additional_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		record.SubmissionID,
		record.ClientName,
		pq.Array(record.ServiceTypes),
		record.Status,
		record.RFPFilename,
		record.Tone,
		record.IncludePricing,
		record.IncludeTimeline,
		record.AdditionalNotes,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	return nil
}

// CreateReferenceDocs сохраняет метаданные дополнительных файлов одной заявки.
func (r *ProposalRepository) CreateReferenceDocs(ctx context.Context, proposalID uuid.UUID, docs []models.ReferenceDoc) error {
	query := `
		INSERT INTO reference_docs (proposal_id, filename, file_size)
		VALUES ($1, $2, $3)
	`

	for _, doc := range docs {
		if _, err := r.db.ExecContext(ctx, query, proposalID, doc.Filename, doc.FileSize); err != nil {
			return fmt.Errorf("proposal repository: create reference doc %w", err)
		}
	}

	return nil
}

// UpdateStatus обновляет статус заявки по её submission_id.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, submissionID string, status models.ProposalStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE proposals SET status = $1 WHERE submission_id = $2`, status, submissionID)
	if err != nil {
		return fmt.Errorf("proposal repository: update status %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: update status %w", err)
	}
	if affected == 0 {
		return ErrProposalNotFound
	}

	return nil
}
