package journal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/wonny/scalpdesk/internal/contracts"
	"github.com/wonny/scalpdesk/pkg/logger"
)

// lockRetryDelay is how often a blocked caller polls the sidecar lock
const lockRetryDelay = 20 * time.Millisecond

// FileStore keeps the journal in a single CSV file.
// Every upsert rewrites the whole file through a temp file and an atomic
// rename. The mutex serializes callers inside this process and the
// <path>.lock file lock serializes processes sharing the path.
type FileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
	log  *logger.Logger
}

// NewFileStore creates a CSV-backed journal at path
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  log.WithField("module", "journal.file"),
	}
}

// Path returns the CSV location
func (s *FileStore) Path() string {
	return s.path
}

// Upsert merges the batch into the stored records
func (s *FileStore) Upsert(ctx context.Context, batch contracts.PredictionBatch) (UpsertStats, error) {
	if err := ctx.Err(); err != nil {
		return UpsertStats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return UpsertStats{}, err
	}
	defer unlock()

	rows, err := s.read()
	if err != nil {
		return UpsertStats{}, err
	}

	// 배치 내 중복 키는 먼저 마지막 레코드로 합친다
	ledger := NewLedger(rows)
	stats := ledger.Merge(NewLedger(batch).Records())

	if err := s.write(ledger.Records()); err != nil {
		return UpsertStats{}, err
	}

	s.log.WithFields(map[string]interface{}{
		"inserted": stats.Inserted,
		"replaced": stats.Replaced,
		"total":    stats.Total,
	}).Debug("journal upserted")

	return stats, nil
}

// Load returns every stored record, deduplicated by key
func (s *FileStore) Load(ctx context.Context) ([]contracts.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rows, err := s.read()
	if err != nil {
		return nil, err
	}
	return NewLedger(rows).Records(), nil
}

// acquire takes the sidecar lock, exclusive for writers and shared for readers
func (s *FileStore) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("lock journal %s: %w", s.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock journal %s: not acquired", s.path)
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.WithError(err).Warn("failed to release journal lock")
		}
	}, nil
}

// Query returns the records matching f
func (s *FileStore) Query(ctx context.Context, f Filter) ([]contracts.Prediction, error) {
	rows, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Select(rows, f), nil
}

// read parses the CSV. A missing file is an empty journal.
func (s *FileStore) read() ([]contracts.Prediction, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %v", ErrCorruptStore, s.path, err)
	}

	idx, err := headerIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}

	var rows []contracts.Prediction
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrCorruptStore, s.path, line, err)
		}

		p, err := decodeRow(idx, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrCorruptStore, s.path, line, err)
		}
		rows = append(rows, p)
	}
	return rows, nil
}

// write replaces the CSV atomically
func (s *FileStore) write(rows []contracts.Prediction) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp journal: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // rename 성공 시 no-op

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write journal header: %w", err)
	}
	for _, p := range rows {
		if err := w.Write(encodeRow(p)); err != nil {
			tmp.Close()
			return fmt.Errorf("write journal row %s: %w", p.PredictionID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp journal: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace journal: %w", err)
	}
	return nil
}
