package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/imamik/clwd/internal/provider"
)

const (
	projectsFile = "projects.json"
	configFile   = "config.json"
	backupSuffix = ".backup"

	// maxBackups bounds how many backup snapshots are kept per document.
	maxBackups = 5

	dirMode  = 0o700
	fileMode = 0o600
)

// Sentinel errors for store-level failures.
var (
	// ErrNotFound is returned by Update and Remove for missing projects.
	ErrNotFound = errors.New("project not found")
	// ErrAlreadyExists is returned by Add for duplicate project names.
	ErrAlreadyExists = errors.New("project already exists")
	// ErrStore marks I/O or parse failures on the persisted documents.
	// These are fatal; no partial recovery is attempted.
	ErrStore = errors.New("store error")
)

// Project is one persisted project record: the instance plus bookkeeping.
// The instance fields are inlined in the JSON document.
type Project struct {
	provider.Instance
	ProjectName  string `json:"project_name"`
	AddedAt      string `json:"added_at"`
	LastAccessed string `json:"last_accessed"`
}

// Summary is the projection returned by ListSummaries.
type Summary struct {
	ProjectName  string `json:"project_name"`
	Status       string `json:"status"`
	Address      string `json:"ip"`
	Provider     string `json:"provider"`
	CreatedAt    string `json:"created_at"`
	LastAccessed string `json:"last_accessed"`
}

// Store manages the persisted project and global-config documents.
type Store struct {
	dir          string
	projectsPath string
	configPath   string

	now func() time.Time
}

// DefaultDir returns the per-user configuration directory (~/.clwd).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: cannot determine home directory: %v", ErrStore, err)
	}
	return filepath.Join(home, ".clwd"), nil
}

// New opens (creating if necessary) the store rooted at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("%w: failed to create config directory %s: %v", ErrStore, dir, err)
	}
	return &Store{
		dir:          dir,
		projectsPath: filepath.Join(dir, projectsFile),
		configPath:   filepath.Join(dir, configFile),
		now:          time.Now,
	}, nil
}

// Add persists a new project record for the instance. It fails with
// ErrAlreadyExists if the (trimmed) name is already taken.
func (s *Store) Add(name string, inst *provider.Instance) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	if _, exists := projects[name]; exists {
		return fmt.Errorf("project %q: %w", name, ErrAlreadyExists)
	}

	now := s.now().Format(time.RFC3339)
	projects[name] = Project{
		Instance:     *inst,
		ProjectName:  name,
		AddedAt:      now,
		LastAccessed: now,
	}
	return s.saveProjects(projects)
}

// Get returns the project record, or nil if absent. Absence is a normal
// lookup outcome, not an error.
func (s *Store) Get(name string) (*Project, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}
	p, ok := projects[name]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetInstance returns the stored instance record, or nil if absent.
func (s *Store) GetInstance(name string) (*provider.Instance, error) {
	p, err := s.Get(name)
	if err != nil || p == nil {
		return nil, err
	}
	inst := p.Instance
	return &inst, nil
}

// Update applies mutate to an existing record and refreshes last_accessed.
// It fails with ErrNotFound for missing projects.
func (s *Store) Update(name string, mutate func(*Project)) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	p, ok := projects[name]
	if !ok {
		return fmt.Errorf("project %q: %w", name, ErrNotFound)
	}

	if mutate != nil {
		mutate(&p)
	}
	p.LastAccessed = s.now().Format(time.RFC3339)
	projects[name] = p
	return s.saveProjects(projects)
}

// UpdateStatus records a new provider-reported status for the project.
func (s *Store) UpdateStatus(name, status string) error {
	return s.Update(name, func(p *Project) { p.Status = status })
}

// Touch refreshes last_accessed without other changes. Called on open/exec
// so ListSummaries keeps most-recently-used ordering.
func (s *Store) Touch(name string) error {
	return s.Update(name, nil)
}

// Remove deletes the project record. It fails with ErrNotFound for missing
// projects.
func (s *Store) Remove(name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	if _, ok := projects[name]; !ok {
		return fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	delete(projects, name)
	return s.saveProjects(projects)
}

// ListSummaries returns all projects, most recently accessed first.
func (s *Store) ListSummaries() ([]Summary, error) {
	projects, err := s.loadProjects()
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(projects))
	for name, p := range projects {
		summaries = append(summaries, Summary{
			ProjectName:  name,
			Status:       p.Status,
			Address:      p.Address,
			Provider:     p.ProviderKind,
			CreatedAt:    p.CreatedAt,
			LastAccessed: p.LastAccessed,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LastAccessed != summaries[j].LastAccessed {
			return summaries[i].LastAccessed > summaries[j].LastAccessed
		}
		return summaries[i].ProjectName < summaries[j].ProjectName
	})
	return summaries, nil
}

// exportDocument is the on-disk shape of an export file.
type exportDocument struct {
	ExportedAt string             `json:"exported_at"`
	Version    string             `json:"clwd_version"`
	Projects   map[string]Project `json:"projects"`
}

// Export writes all project records to path.
func (s *Store) Export(path string) error {
	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	doc := exportDocument{
		ExportedAt: s.now().Format(time.RFC3339),
		Version:    "1.0.0",
		Projects:   projects,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode export: %v", ErrStore, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), fileMode); err != nil {
		return fmt.Errorf("%w: failed to export projects to %s: %v", ErrStore, path, err)
	}
	return nil
}

// Import loads project records from an export file. With merge, imported
// keys overwrite collisions and pre-existing keys are preserved; without,
// the document is replaced wholesale.
func (s *Store) Import(path string, merge bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to read import file %s: %v", ErrStore, path, err)
	}
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: failed to parse import file %s: %v", ErrStore, path, err)
	}
	if doc.Projects == nil {
		doc.Projects = make(map[string]Project)
	}

	if !merge {
		return s.saveProjects(doc.Projects)
	}

	existing, err := s.loadProjects()
	if err != nil {
		return err
	}
	for name, p := range doc.Projects {
		existing[name] = p
	}
	return s.saveProjects(existing)
}

// ConfigValue reads a key from the global config document. Missing keys
// return the zero value with ok=false.
func (s *Store) ConfigValue(key string) (any, bool, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, false, err
	}
	v, ok := cfg[key]
	return v, ok, nil
}

// SetConfigValue writes a key to the global config document.
func (s *Store) SetConfigValue(key string, value any) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	cfg[key] = value
	return s.saveJSON(s.configPath, cfg)
}

// Validate inspects the persisted documents and reports structural issues.
func (s *Store) Validate() []string {
	var issues []string

	projects, err := s.loadProjects()
	if err != nil {
		issues = append(issues, fmt.Sprintf("projects file: %v", err))
	} else {
		for name, p := range projects {
			for field, value := range map[string]string{
				"id":       p.ID,
				"name":     p.Name,
				"ip":       p.Address,
				"provider": p.ProviderKind,
				"status":   p.Status,
			} {
				if value == "" {
					issues = append(issues, fmt.Sprintf("project %q missing required field: %s", name, field))
				}
			}
		}
	}

	if _, err := s.loadConfig(); err != nil {
		issues = append(issues, fmt.Sprintf("config file: %v", err))
	}

	sort.Strings(issues)
	return issues
}

func (s *Store) loadProjects() (map[string]Project, error) {
	projects := make(map[string]Project)
	if err := s.loadJSON(s.projectsPath, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) saveProjects(projects map[string]Project) error {
	return s.saveJSON(s.projectsPath, projects)
}

func (s *Store) loadConfig() (map[string]any, error) {
	cfg := make(map[string]any)
	if err := s.loadJSON(s.configPath, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadJSON reads a document into out. A missing file leaves out at its
// zero/empty state.
func (s *Store) loadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", ErrStore, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", ErrStore, path, err)
	}
	return nil
}

// saveJSON commits a document atomically: snapshot the prior version to a
// backup, write a temp file, then rename into place.
func (s *Store) saveJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", ErrStore, path, err)
	}
	data = append(data, '\n')

	if err := s.snapshotBackup(path); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrStore, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: failed to commit %s: %v", ErrStore, path, err)
	}
	return nil
}

// snapshotBackup copies the current document to a timestamped backup file
// and prunes the oldest snapshots beyond maxBackups.
func (s *Store) snapshotBackup(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read %s for backup: %v", ErrStore, path, err)
	}

	backup := fmt.Sprintf("%s.%020d%s", path, s.now().UnixNano(), backupSuffix)
	if err := os.WriteFile(backup, data, fileMode); err != nil {
		return fmt.Errorf("%w: failed to write backup %s: %v", ErrStore, backup, err)
	}

	s.pruneBackups(path)
	return nil
}

// pruneBackups removes the oldest backups beyond the retention bound.
// Pruning is best-effort; a failed unlink never fails the write.
func (s *Store) pruneBackups(path string) {
	pattern := path + ".*" + backupSuffix
	backups, err := filepath.Glob(pattern)
	if err != nil || len(backups) <= maxBackups {
		return
	}
	// Timestamps are zero-padded, so lexical order is chronological.
	sort.Strings(backups)
	for _, old := range backups[:len(backups)-maxBackups] {
		_ = os.Remove(old)
	}
}

// cleanName trims and validates a project name used as a store key.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: project name cannot be empty", ErrStore)
	}
	return name, nil
}
