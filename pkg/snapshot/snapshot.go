package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"courtChecker/pkg/scraper"
)

// CheckDateLayout formats check_date in JST
const CheckDateLayout = "2006-01-02 15:04:05"

// Snapshot is the JSON artifact written after each run
type Snapshot struct {
	Facility   string         `json:"facility"`
	Sport      string         `json:"sport"`
	CheckDate  string         `json:"check_date"`
	Period     string         `json:"period"`
	TotalSlots int            `json:"total_slots"`
	Slots      []scraper.Slot `json:"slots"`
}

// New builds a snapshot of slots taken at checkedAt
func New(facility, sport, period string, checkedAt time.Time, slots []scraper.Slot) Snapshot {
	return Snapshot{
		Facility:   facility,
		Sport:      sport,
		CheckDate:  checkedAt.Format(CheckDateLayout),
		Period:     period,
		TotalSlots: len(slots),
		Slots:      slots,
	}
}

// FileName returns the artifact name for a run started at t
func FileName(t time.Time) string {
	return fmt.Sprintf("toda_results_%s.json", t.Format("20060102_150405"))
}

// Store persists snapshots under a base directory.
type Store struct {
	baseDir string
}

// NewStore ensures the base directory exists and returns a handle.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "logs"
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes snap as indented JSON and returns the file path.
func (s *Store) Save(snap Snapshot, at time.Time) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path := filepath.Join(s.baseDir, FileName(at))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot file: %w", err)
	}
	return path, nil
}

// Load reads a snapshot written by Save.
func Load(path string) (Snapshot, error) {
	var snap Snapshot

	data, err := os.ReadFile(path) // #nosec G304 - caller supplies a snapshot path
	if err != nil {
		return snap, fmt.Errorf("read snapshot file: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
