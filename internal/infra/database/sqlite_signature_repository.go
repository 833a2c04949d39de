package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

type SQLiteSignatureRepository struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSQLiteSignatureRepository(db *sql.DB) *SQLiteSignatureRepository {
	return &SQLiteSignatureRepository{DB: db, Now: time.Now}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func (r *SQLiteSignatureRepository) Upsert(ctx context.Context, rec *entity.SignatureRecord) (created bool, err error) {
	if rec == nil {
		return false, errNilRecord
	}
	email := entity.NormalizeEmail(rec.Email)
	now := toMillis(r.Now())

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM signatures WHERE email = ?`, email).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = true
		id = uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO signatures (id, email, name, image_data, signed_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, email, rec.Name, rec.ImageData, toMillis(rec.SignedAt), now, now)
	case err == nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE signatures
			SET name = ?, image_data = ?, signed_at = ?, updated_at = ?
			WHERE id = ?
		`, rec.Name, rec.ImageData, toMillis(rec.SignedAt), now, id)
	}
	if err != nil {
		return false, fmt.Errorf("upsert signature: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}
	rec.ID = id
	rec.Email = email
	return created, nil
}

func (r *SQLiteSignatureRepository) List(ctx context.Context) ([]entity.SignatureRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, name, image_data, signed_at
		FROM signatures
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()

	out := []entity.SignatureRecord{}
	for rows.Next() {
		var (
			s        entity.SignatureRecord
			signedAt int64
		)
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.ImageData, &signedAt); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		s.SignedAt = fromMillis(signedAt)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	return out, nil
}

func (r *SQLiteSignatureRepository) Clear(ctx context.Context) (int, error) {
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

func (r *SQLiteSignatureRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
