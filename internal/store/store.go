// Package store persists canonical use-case source records and actor
// records as TOML files, one record per file, and writes the derived
// Markdown projections. All writes are atomic: temp file in the target
// directory, then rename.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// SourceExt is the extension of canonical source records.
const SourceExt = ".toml"

// Store failure modes.
var (
	ErrNotFound      = errors.New("record not found")
	ErrParse         = errors.New("parse error")
	ErrSerialization = errors.New("serialization error")
)

// Diagnostic reports a file that failed to parse during a bulk load.
type Diagnostic struct {
	File string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.File, d.Err)
}

// Store reads and writes the source and rendered trees. It assumes a
// single-process writer; concurrent readers are safe.
type Store struct {
	sourceDir string
	renderDir string
	log       *slog.Logger
}

// New builds a store over the given source and render directories.
func New(sourceDir, renderDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{sourceDir: sourceDir, renderDir: renderDir, log: logger}
}

// SourceDir returns the canonical source directory.
func (s *Store) SourceDir() string { return s.sourceDir }

// RenderDir returns the rendered Markdown directory.
func (s *Store) RenderDir() string { return s.renderDir }

// CategoryDir returns the source directory for a category.
func (s *Store) CategoryDir(category string) string {
	return filepath.Join(s.sourceDir, category)
}

// MarkdownDir returns the rendered directory for a category.
func (s *Store) MarkdownDir(category string) string {
	return filepath.Join(s.renderDir, category)
}

// sourcePath returns the record path for a use case.
func (s *Store) sourcePath(category, id string) string {
	return filepath.Join(s.sourceDir, category, id+SourceExt)
}

// LoadAll walks the source directory and parses every record. Files that
// fail to parse are skipped and reported as diagnostics; the rest of the
// corpus loads normally. Records come back sorted by id.
func (s *Store) LoadAll() ([]*types.UseCase, []Diagnostic, error) {
	var ucs []*types.UseCase
	var diags []Diagnostic

	entries, err := os.ReadDir(s.sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading source dir: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() || e.Name() == "actors" {
			continue
		}
		catDir := filepath.Join(s.sourceDir, e.Name())
		files, err := os.ReadDir(catDir)
		if err != nil {
			diags = append(diags, Diagnostic{File: catDir, Err: err})
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), SourceExt) {
				continue
			}
			path := filepath.Join(catDir, f.Name())
			uc, err := s.loadFile(path)
			if err != nil {
				s.log.Warn("skipping unparseable record", "file", path, "error", err)
				diags = append(diags, Diagnostic{File: path, Err: err})
				continue
			}
			ucs = append(ucs, uc)
		}
	}

	sort.Slice(ucs, func(i, j int) bool { return ucs[i].ID < ucs[j].ID })
	return ucs, diags, nil
}

// LoadByID parses the record for a specific id, searching each category
// directory. Returns ErrNotFound when no record exists.
func (s *Store) LoadByID(id string) (*types.UseCase, error) {
	path, err := s.findSourceFile(id)
	if err != nil {
		return nil, err
	}
	return s.loadFile(path)
}

// Exists reports whether a source record exists for the id.
func (s *Store) Exists(id string) bool {
	_, err := s.findSourceFile(id)
	return err == nil
}

func (s *Store) findSourceFile(id string) (string, error) {
	entries, err := os.ReadDir(s.sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(s.sourceDir, e.Name(), id+SourceExt)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *Store) loadFile(path string) (*types.UseCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeUseCase(data)
}

// SaveSourceOnly writes the canonical record. Lifecycle metadata is
// persisted as-is; bumping it is the caller's mutation, not the write.
// The category directory is created on demand; a category change by the
// caller leaves any previous file behind, which the coordinator handles
// by moving the record explicitly.
func (s *Store) SaveSourceOnly(uc *types.UseCase) error {
	data, err := EncodeUseCase(uc)
	if err != nil {
		return err
	}
	dir := s.CategoryDir(uc.Category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating category dir: %w", err)
	}
	return writeFileAtomic(s.sourcePath(uc.Category, uc.ID), data)
}

// SaveMarkdownOnly writes one projected Markdown file under the rendered
// tree for the category.
func (s *Store) SaveMarkdownOnly(category, filename, text string) error {
	dir := s.MarkdownDir(category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating markdown dir: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, filename), []byte(text))
}

// SaveOverview writes the corpus overview README at the root of the
// rendered tree.
func (s *Store) SaveOverview(text string) error {
	if err := os.MkdirAll(s.renderDir, 0o755); err != nil {
		return fmt.Errorf("creating render dir: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.renderDir, "README.md"), []byte(text))
}

// RemoveMarkdown deletes one projected Markdown file. Missing files are
// ignored.
func (s *Store) RemoveMarkdown(category, filename string) error {
	err := os.Remove(filepath.Join(s.MarkdownDir(category), filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MoveSource relocates a record file between category directories after a
// category change. The new file must already have been written.
func (s *Store) MoveSource(id, oldCategory string) error {
	old := s.sourcePath(oldCategory, id)
	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Delete removes the source record and every Markdown file under the
// category folder whose name starts with "<id>-".
func (s *Store) Delete(id string) error {
	path, err := s.findSourceFile(id)
	if err != nil {
		return err
	}
	category := filepath.Base(filepath.Dir(path))
	if err := os.Remove(path); err != nil {
		return err
	}

	mdDir := s.MarkdownDir(category)
	entries, err := os.ReadDir(mdDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), id+"-") {
			if err := os.Remove(filepath.Join(mdDir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
