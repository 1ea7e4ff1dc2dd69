// File: internal/draft/store.go
package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	homedir "github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/icherkasov/reportgen/api/schemas"
)

// ErrNotFound is returned when a draft with the requested ID does not exist.
var ErrNotFound = errors.New("draft not found")

// Draft is a saved report form state. The model keeps its full fixed schema
// even for empty tables, so loading a draft restores the form exactly.
type Draft struct {
	ID      string              `json:"id"`
	SavedAt time.Time           `json:"saved_at"`
	Model   schemas.ReportModel `json:"model"`
}

// Store persists drafts as one JSON file per draft under a directory.
type Store struct {
	dir string
	log *zap.Logger
}

// DefaultDir returns the per-user drafts directory (~/.reportgen/drafts).
func DefaultDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".reportgen", "drafts"), nil
}

// NewStore creates the drafts directory if needed and returns a store bound
// to it. An empty dir selects the per-user default.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	} else {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand drafts dir %q: %w", dir, err)
		}
		dir = expanded
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create drafts directory %q: %w", dir, err)
	}

	return &Store{
		dir: dir,
		log: logger.Named("drafts"),
	}, nil
}

// Dir returns the resolved drafts directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save persists the model as a new draft and returns it. The write is atomic:
// the JSON is written to a temp file and renamed into place, so a crash never
// leaves a truncated draft behind.
func (s *Store) Save(model schemas.ReportModel) (*Draft, error) {
	model.Normalize()
	d := &Draft{
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
		Model:   model,
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".draft-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp draft file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to close draft file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(d.ID)); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	s.log.Info("Draft saved",
		zap.String("draft_id", d.ID),
		zap.String("project", model.Header.Project))
	return d, nil
}

// Load reads the draft with the given ID. Unknown IDs yield ErrNotFound;
// unparseable files yield a wrapped decode error.
func (s *Store) Load(id string) (*Draft, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read draft %s: %w", id, err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	d.Model.Normalize()
	return &d, nil
}

// Delete removes a draft. Deleting a missing draft yields ErrNotFound.
func (s *Store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	return nil
}

// Info is a draft listing entry; the full model is not loaded.
type Info struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Project string    `json:"project"`
}

// List returns all drafts, newest first. Files that fail to parse are
// skipped with a warning rather than failing the listing.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drafts directory: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		d, err := s.Load(id)
		if err != nil {
			s.log.Warn("Skipping unreadable draft", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		infos = append(infos, Info{
			ID:      d.ID,
			SavedAt: d.SavedAt,
			Project: d.Model.Header.Project,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
	return infos, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validateID ensures the ID is a UUID before it is ever joined into a path.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid draft id %q: %w", id, err)
	}
	return nil
}
