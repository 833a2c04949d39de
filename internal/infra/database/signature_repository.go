package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

var errNilRecord = errors.New("signature record is nil")

// PostgresSignatureRepository relies on the unique email constraint for
// upserts; every mutation is one statement.
type PostgresSignatureRepository struct {
	DB *sql.DB
}

func NewPostgresSignatureRepository(db *sql.DB) *PostgresSignatureRepository {
	return &PostgresSignatureRepository{DB: db}
}

func (r *PostgresSignatureRepository) Upsert(ctx context.Context, rec *entity.SignatureRecord) (bool, error) {
	if rec == nil {
		return false, errNilRecord
	}
	email := entity.NormalizeEmail(rec.Email)

	// xmax is zero only for a row version created by this INSERT.
	query := `
		INSERT INTO signatures (id, email, name, image_data, signed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email)
		DO UPDATE SET
			name = EXCLUDED.name,
			image_data = EXCLUDED.image_data,
			signed_at = EXCLUDED.signed_at,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.DB.QueryRowContext(ctx, query,
		uuid.New().String(),
		email,
		rec.Name,
		rec.ImageData,
		rec.SignedAt.UTC(),
	).Scan(&rec.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert signature: %w", err)
	}
	rec.Email = email
	return inserted, nil
}

func (r *PostgresSignatureRepository) List(ctx context.Context) ([]entity.SignatureRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, name, image_data, signed_at
		FROM signatures
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()

	out := []entity.SignatureRecord{}
	for rows.Next() {
		var s entity.SignatureRecord
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.ImageData, &s.SignedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		s.SignedAt = s.SignedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	return out, nil
}

// Clear is a single DELETE, so concurrent readers see the table either before
// or after it.
func (r *PostgresSignatureRepository) Clear(ctx context.Context) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM signatures`)
	if err != nil {
		return 0, fmt.Errorf("clear signatures: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear signatures: %w", err)
	}
	return int(n), nil
}

func (r *PostgresSignatureRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
