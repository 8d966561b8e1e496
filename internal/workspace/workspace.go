package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/utils"
	"github.com/google/uuid"
)

// FileName is the metadata file that marks a workspace directory.
const FileName = "workspace.json"

const runsDirName = "runs"

// Workspace groups analysis runs for one account or client, persisted on disk.
type Workspace struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Runs        map[string]*Run `json:"runs"`
	Settings    *Settings       `json:"settings"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the workspace.json
	rootDir string `json:"-"`
}

// Settings override global configuration for runs in this workspace.
type Settings struct {
	Language      string `json:"language,omitempty"`
	DefaultFormat string `json:"default_format,omitempty"`
}

// ErrRunNotFound is returned when no run matches an id or prefix.
var ErrRunNotFound = errors.New("run not found")

// New constructs an in-memory workspace. Call Save() to persist.
func New(name, description, rootDir string) *Workspace {
	now := time.Now()
	return &Workspace{
		Name:        name,
		Description: description,
		Runs:        make(map[string]*Run),
		Settings:    &Settings{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// Load loads a workspace.json from the provided directory.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Runs == nil {
		w.Runs = make(map[string]*Run)
	}
	if w.Settings == nil {
		w.Settings = &Settings{}
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory path.
func (w *Workspace) RootDir() string { return w.rootDir }

// Save writes workspace.json using atomic write.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, FileName), data)
}

// AddRun stores the full output under runs/ and records its metadata. The
// workspace itself still needs Save().
func (w *Workspace) AddRun(out *analysis.Output, adsSource, crmSource string) (*Run, error) {
	if w.rootDir == "" {
		return nil, errors.New("workspace root directory not set")
	}
	id := uuid.NewString()
	dir := filepath.Join(w.rootDir, runsDirName)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure runs dir: %w", err)
	}
	data, err := utils.PrettyJSON(out)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(filepath.Join(dir, id+".json"), data); err != nil {
		return nil, err
	}
	r := &Run{
		ID:         id,
		AdsSource:  adsSource,
		CRMSource:  crmSource,
		Language:   out.Language,
		HasRevenue: out.HasRevenue,
		Warnings:   len(out.Warnings),
		Summary:    out.Summary,
		CreatedAt:  time.Now(),
	}
	if w.Runs == nil {
		w.Runs = make(map[string]*Run)
	}
	w.Runs[id] = r
	w.UpdatedAt = time.Now()
	return r, nil
}

// SortedRuns returns runs oldest first.
func (w *Workspace) SortedRuns() []*Run {
	runs := make([]*Run, 0, len(w.Runs))
	for _, r := range w.Runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.Before(runs[j].CreatedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs
}

// FindRun resolves a full id, a unique id prefix, or "latest".
func (w *Workspace) FindRun(ref string) (*Run, error) {
	if ref == "latest" {
		runs := w.SortedRuns()
		if len(runs) == 0 {
			return nil, ErrRunNotFound
		}
		return runs[len(runs)-1], nil
	}
	if r, ok := w.Runs[ref]; ok {
		return r, nil
	}
	var match *Run
	for id, r := range w.Runs {
		if ref != "" && strings.HasPrefix(id, ref) {
			if match != nil {
				return nil, fmt.Errorf("run prefix %q is ambiguous", ref)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%q: %w", ref, ErrRunNotFound)
	}
	return match, nil
}

// LoadOutput reads the stored output of a run.
func (w *Workspace) LoadOutput(id string) (*analysis.Output, error) {
	b, err := os.ReadFile(filepath.Join(w.rootDir, runsDirName, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	var out analysis.Output
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	return &out, nil
}
