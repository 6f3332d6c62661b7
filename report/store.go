package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunCrawling  RunStatus = "crawling"
	RunAnalyzing RunStatus = "analyzing"
	RunComplete  RunStatus = "complete"
	RunFailed    RunStatus = "failed"
)

// Run is one archived analysis: its lifecycle state plus, once complete,
// the headline score and where the rendered report lives.
type Run struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Status     RunStatus `json:"status"`
	Score      *float64  `json:"score,omitempty"`
	Rating     string    `json:"rating,omitempty"`
	Error      string    `json:"error,omitempty"`
	ReportPath string    `json:"report_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store keeps the run archive: an index file plus one directory per run
// holding the rendered reports. Index writes go through a temp-file rename
// and are batched by a background writer so request paths never block on
// disk.
type Store struct {
	mutex       sync.RWMutex
	runs        map[string]*Run
	baseDir     string
	indexPath   string
	writeBuffer chan struct{}
	done        chan struct{}
}

// NewStore opens (or creates) the archive rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	s := &Store{
		runs:        make(map[string]*Run),
		baseDir:     baseDir,
		indexPath:   filepath.Join(baseDir, "runs.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading run index: %w", err)
	}
	go s.backgroundWriter()
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return json.Unmarshal(data, &s.runs)
}

func (s *Store) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.runs)
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("marshaling run index: %w", err)
	}

	tempFile := s.indexPath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("writing run index: %w", err)
	}
	if err := os.Rename(tempFile, s.indexPath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("replacing run index: %w", err)
	}
	return nil
}

func (s *Store) backgroundWriter() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			s.save()
			return
		}
	}
}

func (s *Store) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
	default:
		// A write is already pending.
	}
}

// Close flushes the index and stops the background writer.
func (s *Store) Close() {
	close(s.done)
}

// CreateRun registers a new pending run and creates its directory.
func (s *Store) CreateRun(id, url string) (*Run, error) {
	if err := os.MkdirAll(s.RunDir(id), 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	now := time.Now().UTC()
	run := &Run{ID: id, URL: url, Status: RunPending, CreatedAt: now, UpdatedAt: now}

	s.mutex.Lock()
	s.runs[id] = run
	s.mutex.Unlock()
	s.requestWrite()

	snapshot := *run
	return &snapshot, nil
}

// RunDir returns the directory holding a run's files.
func (s *Store) RunDir(id string) string {
	return filepath.Join(s.baseDir, id)
}

// SetStatus advances a run's lifecycle state.
func (s *Store) SetStatus(id string, status RunStatus) {
	s.update(id, func(r *Run) { r.Status = status })
}

// SetFailed marks a run failed with its error.
func (s *Store) SetFailed(id string, err error) {
	s.update(id, func(r *Run) {
		r.Status = RunFailed
		r.Error = err.Error()
	})
}

// SetComplete records the finished run's headline numbers.
func (s *Store) SetComplete(id string, score float64, rating, reportPath string) {
	s.update(id, func(r *Run) {
		r.Status = RunComplete
		r.Score = &score
		r.Rating = rating
		r.ReportPath = reportPath
	})
}

func (s *Store) update(id string, fn func(*Run)) {
	s.mutex.Lock()
	if run, ok := s.runs[id]; ok {
		fn(run)
		run.UpdatedAt = time.Now().UTC()
	}
	s.mutex.Unlock()
	s.requestWrite()
}

// Get returns a run by ID.
func (s *Store) Get(id string) (Run, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if run, ok := s.runs[id]; ok {
		return *run, true
	}
	return Run{}, false
}

// List returns all runs, newest first.
func (s *Store) List() []Run {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs
}

// SaveReport renders the report into the run's directory and returns the
// written path.
func (s *Store) SaveReport(id string, r *Report, format string) (string, error) {
	renderer, err := ForFormat(format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.RunDir(id), "report."+renderer.Ext())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := renderer.Render(f, r); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return path, nil
}
