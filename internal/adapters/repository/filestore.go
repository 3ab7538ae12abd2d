package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

const (
	fileMode = os.FileMode(0o644)
	dirMode  = os.FileMode(0o755)
)

// gameDocument is the on-disk JSON layout: the record set plus the CAS
// version, one document per game.
type gameDocument struct {
	Version uint64              `json:"version"`
	Records []model.ScoreRecord `json:"records"`
}

// FileStore keeps one JSON document per game on an afero filesystem.
// Writes go through a temp file and rename. A process-wide mutex makes the
// version check and the rename atomic with respect to other goroutines;
// cross-process exclusion is not provided.
type FileStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

// NewFileStore constructs a flat-file store rooted at dir.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// path maps a game id onto a filesystem-safe file name.
func (s *FileStore) path(gameID string) string {
	return filepath.Join(s.dir, url.PathEscape(gameID)+".json")
}

// LoadAll implements Store.LoadAll.
func (s *FileStore) LoadAll(ctx context.Context, gameID string) ([]model.ScoreRecord, uint64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLoadLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(gameID)
	if err != nil {
		return nil, 0, err
	}
	return doc.Records, doc.Version, nil
}

// read loads a game document; an absent file is an empty game.
func (s *FileStore) read(gameID string) (gameDocument, error) {
	var doc gameDocument
	data, err := afero.ReadFile(s.fs, s.path(gameID))
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, fmt.Errorf("%w: read %s: %w", ErrUnavailable, gameID, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: decode %s: %w", ErrUnavailable, gameID, err)
	}
	return doc, nil
}

// SaveAll implements Store.SaveAll.
func (s *FileStore) SaveAll(ctx context.Context, gameID string, records []model.ScoreRecord, version uint64) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(gameID)
	if err != nil {
		return err
	}
	if current.Version != version {
		metrics.RecordStoreConflict()
		return ErrVersionConflict
	}

	doc := gameDocument{Version: version + 1, Records: records}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrUnavailable, gameID, err)
	}

	target := s.path(gameID)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, fileMode); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrUnavailable, gameID, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrUnavailable, gameID, err)
	}
	return nil
}

// Games implements Store.Games.
func (s *FileStore) Games(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".json") {
			n++
		}
	}
	return n
}
