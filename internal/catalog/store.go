package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/career-leader/internal/assessment"
	"github.com/fairyhunter13/career-leader/internal/domain"
)

// Store keeps the current catalog snapshot. Readers always get a complete,
// immutable snapshot; Reload swaps it atomically and keeps the previous one
// when the new files are invalid.
type Store struct {
	read          func(name string) ([]byte, error)
	questionsName string
	careersName   string

	cur atomic.Pointer[domain.CatalogSnapshot]
	mu  sync.Mutex
	now func() time.Time
}

var _ domain.CatalogSource = (*Store)(nil)

// NewFileStore reads catalogs from the local filesystem or, for http(s)
// locations, over the network.
func NewFileStore(questionsPath, careersPath string) *Store {
	return NewStore(ReadLocation(NewHTTPReader(0)), questionsPath, careersPath)
}

// NewFSStore reads catalogs from fsys, e.g. the bundled data.FS.
func NewFSStore(fsys fs.FS, questionsName, careersName string) *Store {
	return NewStore(func(name string) ([]byte, error) { return fs.ReadFile(fsys, name) }, questionsName, careersName)
}

// NewStore reads both catalogs through read. The initial snapshot is empty
// until the first Reload.
func NewStore(read func(name string) ([]byte, error), q, c string) *Store {
	s := &Store{read: read, questionsName: q, careersName: c, now: time.Now}
	s.cur.Store(&domain.CatalogSnapshot{Questions: []domain.Question{}, Careers: []domain.Career{}})
	return s
}

// ReadLocalFile reads a catalog file from disk.
func ReadLocalFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, err
	}
	return b, nil
}

// Current returns the snapshot to hand to one engine call.
func (s *Store) Current() *domain.CatalogSnapshot { return s.cur.Load() }

// Reload re-reads both catalogs and publishes a new snapshot.
func (s *Store) Reload(ctx domain.Context) (*domain.CatalogSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qb, err := s.read(s.questionsName)
	if err != nil {
		return nil, fmt.Errorf("op=catalog.Reload: %w", err)
	}
	cb, err := s.read(s.careersName)
	if err != nil {
		return nil, fmt.Errorf("op=catalog.Reload: %w", err)
	}
	questions, err := DecodeQuestions(qb)
	if err != nil {
		return nil, fmt.Errorf("op=catalog.Reload: %s: %w", s.questionsName, err)
	}
	careers, err := DecodeCareers(cb)
	if err != nil {
		return nil, fmt.Errorf("op=catalog.Reload: %s: %w", s.careersName, err)
	}
	if err := assessment.CheckCatalog(questions); err != nil {
		slog.WarnContext(ctx, "question catalog does not cover every dimension", slog.Any("error", err))
	}

	snap := &domain.CatalogSnapshot{
		Questions: questions,
		Careers:   careers,
		Version:   Version(qb, cb),
		LoadedAt:  s.now().UTC(),
	}
	s.cur.Store(snap)
	slog.InfoContext(ctx, "catalog loaded",
		slog.String("version", snap.Version),
		slog.Int("questions", len(questions)),
		slog.Int("careers", len(careers)))
	return snap, nil
}

// Version fingerprints the raw catalog bytes.
func Version(questions, careers []byte) string {
	h := sha256.New()
	h.Write(questions)
	h.Write([]byte{0})
	h.Write(careers)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
