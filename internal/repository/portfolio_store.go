package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"portfolio-ai/internal/models"

	"github.com/segmentio/ksuid"
)

// ErrInvalidPortfolio is returned when an uploaded document fails validation.
// The previous document stays in place untouched.
var ErrInvalidPortfolio = fmt.Errorf("invalid portfolio document")

// PortfolioStore keeps the portfolio as a single JSON file on disk.
// Uploads replace the file wholesale; the previous version is backed up
// with a timestamped name first, so a bad upload is always recoverable.
type PortfolioStore struct {
	path      string
	backupDir string
	mu        sync.Mutex // serializes Replace; reads go straight to disk
}

func NewPortfolioStore(path, backupDir string) *PortfolioStore {
	return &PortfolioStore{
		path:      path,
		backupDir: backupDir,
	}
}

// Path returns the location of the portfolio file, for the file watcher.
func (s *PortfolioStore) Path() string {
	return s.path
}

// Load reads and parses the current portfolio document.
func (s *PortfolioStore) Load() (*models.Portfolio, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio file: %w", err)
	}

	var p models.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio file: %w", err)
	}
	return &p, nil
}

// Raw returns the document bytes as stored, for the public read endpoint.
func (s *PortfolioStore) Raw() ([]byte, error) {
	return os.ReadFile(s.path)
}

// Replace validates the uploaded document, backs up the current file, then
// swaps in the new one via temp-file + rename so readers never see a
// half-written document.
func (s *PortfolioStore) Replace(data []byte) error {
	var p models.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPortfolio, err)
	}
	// The one structural invariant enforced at the boundary: a portfolio
	// must identify its owner.
	if p.Profile.Name == "" {
		return fmt.Errorf("%w: profile.name must be non-empty", ErrInvalidPortfolio)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backupCurrent(); err != nil {
		return err
	}

	tmp := s.path + ".tmp-" + ksuid.New().String()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write portfolio: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace portfolio: %w", err)
	}
	return nil
}

// backupCurrent copies the live document into the backup directory with a
// timestamped name. A missing live file (first upload) is not an error.
func (s *PortfolioStore) backupCurrent() error {
	current, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read current portfolio for backup: %w", err)
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("portfolio-%s.json", time.Now().UTC().Format("20060102-150405"))
	if err := os.WriteFile(filepath.Join(s.backupDir, name), current, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}
