// Package filestore keeps one JSON file per signer in a directory.
package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9]`)
	errCorrupt  = errors.New("corrupt signature file")
)

const trashPrefix = ".clearing-"

type fileRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Signature string    `json:"signature"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignatureRepository serializes mutations behind one lock. Writes go through
// a temp file and a rename, so a crash never leaves a half-written record.
type SignatureRepository struct {
	Dir string
	Log *logger.Logger
	Now func() time.Time

	mu sync.RWMutex
}

func NewSignatureRepository(dir string, log *logger.Logger) (*SignatureRepository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("signatures dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create signatures dir: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &SignatureRepository{Dir: filepath.Clean(dir), Log: log, Now: time.Now}
	r.removeTrash()
	return r, nil
}

// fileName stays readable but adds a hash so that emails which sanitize to
// the same string do not share a file.
func fileName(email string) string {
	sum := sha256.Sum256([]byte(email))
	return unsafeChars.ReplaceAllString(email, "_") + "-" + hex.EncodeToString(sum[:4]) + ".json"
}

func (r *SignatureRepository) Upsert(ctx context.Context, rec *entity.SignatureRecord) (bool, error) {
	if rec == nil {
		return false, errors.New("signature record is nil")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	email := entity.NormalizeEmail(rec.Email)
	path := filepath.Join(r.Dir, fileName(email))

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := readRecord(path)
	if errors.Is(err, errCorrupt) {
		r.Log.Warn("replacing corrupt signature file", "email", email, "error", err)
	}
	created := errors.Is(err, os.ErrNotExist) || errors.Is(err, errCorrupt)
	if err != nil && !created {
		return false, err
	}

	fr := fileRecord{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      rec.Name,
		Signature: rec.ImageData,
		Timestamp: rec.SignedAt.UTC(),
		CreatedAt: r.Now().UTC(),
	}
	if !created {
		fr.ID = existing.ID
		fr.CreatedAt = existing.CreatedAt
	}

	if err := writeAtomic(r.Dir, path, fr); err != nil {
		return false, err
	}
	rec.ID = fr.ID
	rec.Email = email
	return created, nil
}

func (r *SignatureRepository) List(ctx context.Context) ([]entity.SignatureRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names, err := r.recordFiles()
	if err != nil {
		return nil, err
	}

	records := make([]fileRecord, 0, len(names))
	for _, name := range names {
		fr, err := readRecord(filepath.Join(r.Dir, name))
		if err != nil {
			r.Log.Warn("skipping unreadable signature file", "file", name, "error", err)
			continue
		}
		records = append(records, fr)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].Email < records[j].Email
	})

	out := make([]entity.SignatureRecord, 0, len(records))
	for _, fr := range records {
		out = append(out, entity.SignatureRecord{
			ID:        fr.ID,
			Email:     entity.NormalizeEmail(fr.Email),
			Name:      fr.Name,
			ImageData: fr.Signature,
			SignedAt:  fr.Timestamp,
		})
	}
	return out, nil
}

// Clear moves every record into a trash directory inside Dir and then removes
// it. Dir itself stays in place, so it can be a mount point. Readers wait on
// the lock and see either the full set or nothing. The count covers records
// that decode; unreadable files are removed without being counted.
func (r *SignatureRepository) Clear(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.recordFiles()
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}

	trash, err := os.MkdirTemp(r.Dir, trashPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("clear signatures: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(trash); err != nil {
			r.Log.Warn("cleared signatures left behind", "dir", trash, "error", err)
		}
	}()

	deleted := 0
	for _, name := range names {
		path := filepath.Join(r.Dir, name)
		if _, err := readRecord(path); err == nil {
			deleted++
		}
		if err := os.Rename(path, filepath.Join(trash, name)); err != nil {
			return 0, fmt.Errorf("clear signatures: %w", err)
		}
	}
	return deleted, nil
}

func (r *SignatureRepository) Ping(ctx context.Context) error {
	info, err := os.Stat(r.Dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", r.Dir)
	}
	return nil
}

// removeTrash deletes what an interrupted Clear left behind.
func (r *SignatureRepository) removeTrash() {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), trashPrefix) {
			if err := os.RemoveAll(filepath.Join(r.Dir, e.Name())); err != nil {
				r.Log.Warn("cleared signatures left behind", "dir", e.Name(), "error", err)
			}
		}
	}
}

func (r *SignatureRepository) recordFiles() ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, fmt.Errorf("read signatures dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func readRecord(path string) (fileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileRecord{}, err
	}
	var fr fileRecord
	if err := json.Unmarshal(data, &fr); err != nil {
		return fileRecord{}, fmt.Errorf("%w %s: %v", errCorrupt, filepath.Base(path), err)
	}
	return fr, nil
}

func writeAtomic(dir, path string, fr fileRecord) error {
	data, err := json.MarshalIndent(fr, "", "  ")
	if err != nil {
		return fmt.Errorf("encode signature: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write signature: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write signature: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}
	return nil
}
