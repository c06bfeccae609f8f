// Package jsonfile stores skill snapshots as a single JSON document.
package jsonfile

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/zjrosen/skillboard/internal/log"
	"github.com/zjrosen/skillboard/internal/skills"
)

//go:embed skills.schema.json
var schemaJSON []byte

var schema = gojsonschema.NewBytesLoader(schemaJSON)

type document struct {
	Skills []skills.Skill `json:"skills"`
}

// Store keeps the snapshot at Path. Writes go to a temporary file that is
// renamed over the target, so a crash never leaves a half-written document.
type Store struct {
	path string
}

var _ skills.Store = (*Store)(nil)

// New returns a store for path. Nothing is touched until Load or Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the document.
func (s *Store) Load(_ context.Context) ([]skills.Skill, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, skills.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, skills.CorruptError("decoding %s: %v", s.path, err)
	}
	if doc.Skills == nil {
		doc.Skills = []skills.Skill{}
	}
	log.Debug(log.CatStore, "Loaded snapshot", "backend", "json", "count", len(doc.Skills))
	return doc.Skills, nil
}

// Save writes the full snapshot.
func (s *Store) Save(_ context.Context, list []skills.Skill) error {
	if list == nil {
		list = []skills.Skill{}
	}
	data, err := json.MarshalIndent(document{Skills: list}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding skills: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	log.Debug(log.CatStore, "Saved snapshot", "backend", "json", "count", len(list))
	return nil
}

// Close implements skills.Store.
func (s *Store) Close() error {
	return nil
}

func validate(data []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return skills.CorruptError("%v", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return skills.CorruptError("%s", strings.Join(msgs, "; "))
}
