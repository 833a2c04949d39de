package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

// Document is the on-disk roster layout shared with the frontend's employees.json.
type Document struct {
	Employees []entity.Person `json:"employees" yaml:"employees"`
	HRBoard   struct {
		HR    []entity.Person `json:"hr" yaml:"hr"`
		Board []entity.Person `json:"board" yaml:"board"`
	} `json:"hrBoard" yaml:"hrBoard"`
}

func (d Document) Roster() entity.Roster {
	return entity.NewRoster(d.Employees, d.HRBoard.HR, d.HRBoard.Board)
}

// FileLoader re-reads the roster file whenever its modification time or size
// changes, so edits take effect without a restart.
type FileLoader struct {
	Path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	cached  entity.Roster
	loaded  bool
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

func (l *FileLoader) Roster(ctx context.Context) (entity.Roster, error) {
	if err := ctx.Err(); err != nil {
		return entity.Roster{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.Path)
	if err != nil {
		return entity.Roster{}, fmt.Errorf("stat roster file: %w", err)
	}
	if l.loaded && info.ModTime().Equal(l.modTime) && info.Size() == l.size {
		return l.cached, nil
	}

	doc, err := ReadFile(l.Path)
	if err != nil {
		return entity.Roster{}, err
	}
	l.cached = doc.Roster()
	l.modTime = info.ModTime()
	l.size = info.Size()
	l.loaded = true
	return l.cached, nil
}

// ReadFile decodes a .json, .yaml or .yml roster file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read roster file: %w", err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("parse roster file %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Static serves a fixed roster.
type Static struct {
	R entity.Roster
}

func (s Static) Roster(context.Context) (entity.Roster, error) {
	return s.R, nil
}
