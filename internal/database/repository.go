package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-alternance-automation/internal/dedup"
	"go-alternance-automation/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS offers (
	offer_key          TEXT PRIMARY KEY,
	session_id         UUID NOT NULL,
	source_index       INTEGER NOT NULL,
	title              TEXT NOT NULL,
	organization       TEXT NOT NULL DEFAULT '',
	location           TEXT NOT NULL DEFAULT '',
	link               TEXT NOT NULL DEFAULT '',
	raw_text           TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL,
	job_score          DOUBLE PRECISION NOT NULL,
	training_score     DOUBLE PRECISION NOT NULL,
	matched_signals    JSONB NOT NULL DEFAULT '[]',
	decision_reason    TEXT NOT NULL,
	application_status TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS offers_session_idx ON offers (session_id);`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer) break on prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// EnsureSchema creates the offers table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// OfferKey identifies an offer across sessions: its link when it has one,
// the dedup key otherwise.
func OfferKey(offer models.NormalizedOffer) string {
	if offer.Link != "" {
		return offer.Link
	}
	return dedup.Key(offer)
}

// SaveOffer inserts a record or refreshes an existing one. An existing
// application status other than NotApplied is kept.
func (r *Repository) SaveOffer(ctx context.Context, sessionID uuid.UUID, rec models.OfferRecord) error {
	signals, err := json.Marshal(rec.Classification.MatchedSignals)
	if err != nil {
		return fmt.Errorf("failed to encode signals: %w", err)
	}
	o, c := rec.Offer, rec.Classification

	query := `
		INSERT INTO offers (offer_key, session_id, source_index, title, organization, location, link, raw_text,
			category, job_score, training_score, matched_signals, decision_reason, application_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (offer_key)
		DO UPDATE SET session_id = EXCLUDED.session_id, source_index = EXCLUDED.source_index,
			title = EXCLUDED.title, organization = EXCLUDED.organization, location = EXCLUDED.location,
			raw_text = EXCLUDED.raw_text, category = EXCLUDED.category, job_score = EXCLUDED.job_score,
			training_score = EXCLUDED.training_score, matched_signals = EXCLUDED.matched_signals,
			decision_reason = EXCLUDED.decision_reason,
			application_status = CASE WHEN offers.application_status = 'NotApplied'
				THEN EXCLUDED.application_status ELSE offers.application_status END,
			updated_at = now()`

	_, err = r.db.Exec(ctx, query, OfferKey(o), sessionID, o.SourceIndex, o.Title, o.Organization, o.Location, o.Link,
		o.RawText, string(c.Category), c.JobScore, c.TrainingScore, signals, c.DecisionReason, string(rec.ApplicationStatus))
	if err != nil {
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

func (r *Repository) UpdateApplicationStatus(ctx context.Context, offer models.NormalizedOffer, status models.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE offers SET application_status = $1, updated_at = now() WHERE offer_key = $2",
		string(status), OfferKey(offer))
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer not found: %s", offer.Title)
	}
	return nil
}

// ListOffers returns the records saved by one session in source order.
func (r *Repository) ListOffers(ctx context.Context, sessionID uuid.UUID) ([]models.OfferRecord, error) {
	query := `
		SELECT source_index, title, organization, location, link, raw_text,
			category, job_score, training_score, matched_signals, decision_reason, application_status
		FROM offers WHERE session_id = $1 ORDER BY source_index`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	var records []models.OfferRecord
	for rows.Next() {
		var (
			rec      models.OfferRecord
			category string
			status   string
			signals  []byte
		)
		o, c := &rec.Offer, &rec.Classification
		if err := rows.Scan(&o.SourceIndex, &o.Title, &o.Organization, &o.Location, &o.Link, &o.RawText,
			&category, &c.JobScore, &c.TrainingScore, &signals, &c.DecisionReason, &status); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		c.Category = models.Category(category)
		rec.ApplicationStatus = models.ApplicationStatus(status)
		if err := json.Unmarshal(signals, &c.MatchedSignals); err != nil {
			return nil, fmt.Errorf("failed to decode signals: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
