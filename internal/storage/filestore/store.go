// Package filestore keeps the whole restaurant collection in one pretty-printed JSON file.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"food_explorer/internal/adapters/observability"
	"food_explorer/internal/domain"
)

const DefaultPath = "data/restaurants.json"

type Store struct{ path string }

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// ReadAll returns the stored collection. A missing file is an empty
// collection. So is a file that is not a JSON array; that case is logged and
// counted but not returned as an error. Inside a valid array, an element that
// does not decode as a restaurant is logged, counted and skipped.
func (s *Store) ReadAll(ctx context.Context) ([]domain.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		observability.ObserveStore("file", "read", nil)
		return []domain.Restaurant{}, nil
	}
	if err != nil {
		observability.ObserveStore("file", "read", err)
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		observability.ObserveStore("file", "read", nil)
		return []domain.Restaurant{}, nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(b, &docs); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("restaurant file is malformed; treating as empty")
		observability.ObserveLenientRead("file")
		return []domain.Restaurant{}, nil
	}

	rs := make([]domain.Restaurant, 0, len(docs))
	for i, doc := range docs {
		var r domain.Restaurant
		if err := json.Unmarshal(doc, &r); err != nil {
			log.Warn().Err(err).Str("path", s.path).Int("index", i).Msg("skipping malformed restaurant record")
			observability.ObserveLenientRead("file")
			continue
		}
		rs = append(rs, r)
	}
	observability.ObserveStore("file", "read", nil)
	observability.SetStored("file", len(rs))
	return rs, nil
}

// WriteAll replaces the file. The document is written to a temp file in the
// same directory and renamed over the target, so readers see either the old or
// the new collection.
func (s *Store) WriteAll(ctx context.Context, rs []domain.Restaurant) (err error) {
	defer func() { observability.ObserveStore("file", "write", err) }()
	if err := ctx.Err(); err != nil {
		return err
	}
	if rs == nil {
		rs = []domain.Restaurant{}
	}
	b, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode restaurants: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".restaurants-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	observability.SetStored("file", len(rs))
	return nil
}
