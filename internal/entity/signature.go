package entity

import (
	"context"
	"time"
)

// SignatureRecord is one signer's signature. ID is storage-internal and never
// leaves the service.
type SignatureRecord struct {
	ID        string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ImageData string    `json:"signature"`
	SignedAt  time.Time `json:"timestamp"`
}

// DisplayName falls back to the email when the signer left the name empty.
func (s SignatureRecord) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

// SignatureRepository keeps at most one record per normalized email.
//
// Upsert replaces any record with the same email and reports whether it was
// a first insert. Clear removes every record in one step; readers observe
// either the full set or the empty set.
type SignatureRepository interface {
	Upsert(ctx context.Context, rec *SignatureRecord) (created bool, err error)
	List(ctx context.Context) ([]SignatureRecord, error)
	Clear(ctx context.Context) (deleted int, err error)
	Ping(ctx context.Context) error
}
