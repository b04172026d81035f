// Package store owns the on-disk layout of plans under a workspace:
//
//	plans/<name>/meta.json     plan metadata
//	plans/<name>/answers.json  answer snapshot, rewritten after every answer
//	plans/<name>/plan.md       rendered document, written on finalize
//
// Every write replaces the whole file through a temp file and rename, so a
// reader never observes a partially written snapshot. There is no locking;
// one process owns a plan directory for the length of a session.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/rs/zerolog"
)

const (
	PlansDirName    = "plans"
	MetaFileName    = "meta.json"
	AnswersFileName = "answers.json"
	DocumentName    = "plan.md"
)

// PlanDir joins the workspace root and plan name. It performs no I/O.
func PlanDir(workspaceRoot, planName string) string {
	return filepath.Join(workspaceRoot, PlansDirName, planName)
}

// FileStore reads and writes plan artifacts.
type FileStore struct {
	logger zerolog.Logger
	now    func() time.Time
}

// Option customizes a FileStore during construction.
type Option func(*FileStore)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *FileStore) {
		s.now = clock
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// New creates a FileStore.
func New(opts ...Option) *FileStore {
	s := &FileStore{
		logger: zerolog.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsurePlanDir creates the plan directory and its parents.
func (s *FileStore) EnsurePlanDir(planDir string) error {
	if err := os.MkdirAll(planDir, 0o755); err != nil {
		return fmt.Errorf("store: create plan dir %s: %w", planDir, err)
	}
	return nil
}

// ReadAnswers returns the stored answer snapshot. A missing or unparsable
// file yields an empty map: it means "no prior progress", never an error.
func (s *FileStore) ReadAnswers(planDir string) domain.AnswerMap {
	path := filepath.Join(planDir, AnswersFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Err(err).Str("path", path).Msg("answers unreadable, starting empty")
		}
		return domain.AnswerMap{}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("answers unparsable, starting empty")
		return domain.AnswerMap{}
	}

	answers := make(domain.AnswerMap, len(raw))
	for k, v := range raw {
		answers[k] = domain.NormalizeAnswerValue(v)
	}
	return answers
}

// WriteAnswers replaces the answer snapshot.
func (s *FileStore) WriteAnswers(planDir string, answers domain.AnswerMap) error {
	if answers == nil {
		answers = domain.AnswerMap{}
	}
	if err := writeJSON(filepath.Join(planDir, AnswersFileName), answers); err != nil {
		return fmt.Errorf("store: write answers: %w", err)
	}
	s.logger.Debug().Str("plan_dir", planDir).Int("answers", len(answers)).Msg("answers snapshot written")
	return nil
}

// ReadMetadata returns the stored metadata, or false when absent or corrupt.
func (s *FileStore) ReadMetadata(planDir string) (domain.PlanMeta, bool) {
	path := filepath.Join(planDir, MetaFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PlanMeta{}, false
	}
	var meta domain.PlanMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("metadata unparsable")
		return domain.PlanMeta{}, false
	}
	return meta, true
}

// WriteMetadata replaces meta.json. CreatedAt is carried over from the
// existing file when there is one, otherwise it is stamped now; UpdatedAt
// is always stamped now.
func (s *FileStore) WriteMetadata(planDir string, meta domain.PlanMeta) (domain.PlanMeta, error) {
	now := s.now()
	meta.CreatedAt = now
	if prior, ok := s.ReadMetadata(planDir); ok && !prior.CreatedAt.IsZero() {
		meta.CreatedAt = prior.CreatedAt
	}
	meta.UpdatedAt = now

	if err := writeJSON(filepath.Join(planDir, MetaFileName), meta); err != nil {
		return domain.PlanMeta{}, fmt.Errorf("store: write metadata: %w", err)
	}
	s.logger.Info().Str("plan", meta.Name).Time("updated_at", now).Msg("plan metadata written")
	return meta, nil
}

// WriteDocument replaces plan.md.
func (s *FileStore) WriteDocument(planDir, text string) error {
	if err := atomicWrite(filepath.Join(planDir, DocumentName), []byte(text)); err != nil {
		return fmt.Errorf("store: write document: %w", err)
	}
	s.logger.Info().Str("plan_dir", planDir).Int("bytes", len(text)).Msg("plan document written")
	return nil
}

// ReadDocument returns plan.md.
func (s *FileStore) ReadDocument(planDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(planDir, DocumentName))
	if err != nil {
		return "", fmt.Errorf("store: read document: %w", err)
	}
	return string(data), nil
}

// ListPlans scans the workspace for plan directories that carry metadata,
// newest update first. Directories without readable metadata are skipped.
func (s *FileStore) ListPlans(workspaceRoot string) ([]domain.PlanMeta, error) {
	root := filepath.Join(workspaceRoot, PlansDirName)
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list plans: %w", err)
	}

	var metas []domain.PlanMeta
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, ok := s.ReadMetadata(filepath.Join(root, e.Name()))
		if !ok {
			continue
		}
		if meta.Name == "" {
			meta.Name = e.Name()
		}
		metas = append(metas, meta)
	}
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

func writeJSON(path string, value any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return atomicWrite(path, buf.Bytes())
}

// atomicWrite writes data to a temp file in the target directory and
// renames it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".plancraft-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	renamed = true
	return nil
}
