package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var slugSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// Store is the file-backed task collection rooted at a task directory.
type Store struct {
	dir string
}

// NewStore binds a Store to a task directory, creating it if absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tasks: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// taskRecord is one loaded file plus its parsed status and mtime.
type taskRecord struct {
	Path   string
	Status Status
	ModAt  time.Time
}

func (s *Store) listAll() ([]taskRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("tasks: read task dir %s: %w", s.dir, err)
	}
	var records []taskRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		status, err := StatusFromPath(path)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		records = append(records, taskRecord{Path: path, Status: status, ModAt: info.ModTime()})
	}
	return records, nil
}

// ListOpenAndWIP returns every open/wip task record, for the review loop.
func (s *Store) ListOpenAndWIP() ([]taskRecord, error) {
	all, err := s.listAll()
	if err != nil {
		return nil, err
	}
	var out []taskRecord
	for _, r := range all {
		if r.Status == StatusOpen || r.Status == StatusWIP {
			out = append(out, r)
		}
	}
	return out, nil
}

// CountByStatus returns the count of tasks in each of the five statuses.
func (s *Store) CountByStatus() (open, wip, paused, finished, unsuccessful int, err error) {
	all, err := s.listAll()
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	for _, r := range all {
		switch r.Status {
		case StatusOpen:
			open++
		case StatusWIP:
			wip++
		case StatusPaused:
			paused++
		case StatusFinished:
			finished++
		case StatusUnsuccessful:
			unsuccessful++
		}
	}
	return open, wip, paused, finished, unsuccessful, nil
}

// List renders a human-readable listing: open+wip grouped by status, or all
// five statuses when all is true.
func (s *Store) List(all bool) (string, error) {
	records, err := s.listAll()
	if err != nil {
		return "", err
	}

	statuses := []Status{StatusOpen, StatusWIP}
	if all {
		statuses = []Status{StatusOpen, StatusWIP, StatusPaused, StatusFinished, StatusUnsuccessful}
	}

	modTimes := make(map[string]time.Time, len(records))
	for _, r := range records {
		modTimes[filepath.Base(r.Path)] = r.ModAt
	}

	var sb strings.Builder
	for _, want := range statuses {
		var names []string
		for _, r := range records {
			if r.Status == want {
				names = append(names, filepath.Base(r.Path))
			}
		}
		sort.Strings(names)
		fmt.Fprintf(&sb, "%s (%d):\n", want, len(names))
		for _, n := range names {
			fmt.Fprintf(&sb, "  %s (%s)\n", n, humanize.Time(modTimes[n]))
		}
	}
	return sb.String(), nil
}

// Show returns a task's full body.
func (s *Store) Show(idOrPath string) (string, error) {
	path, err := ResolveTaskPath(s.dir, idOrPath)
	if err != nil {
		return "", err
	}
	return ReadBody(path)
}

// Append adds a "## Feedback" section to a task's body.
func (s *Store) Append(idOrPath, note string) (string, error) {
	path, err := ResolveTaskPath(s.dir, idOrPath)
	if err != nil {
		return "", err
	}
	if err := AppendToTask(path, note); err != nil {
		return "", err
	}
	return fmt.Sprintf("appended to %s", filepath.Base(path)), nil
}

// SetStatus transitions a task's status, refusing "finished" when any
// declared sub-task is not in {finished, unsuccessful}.
func (s *Store) SetStatus(idOrPath, statusStr string) (string, error) {
	path, err := ResolveTaskPath(s.dir, idOrPath)
	if err != nil {
		return "", err
	}
	newStatus := Status(strings.ToLower(strings.TrimSpace(statusStr)))

	if newStatus == StatusFinished {
		body, err := ReadBody(path)
		if err != nil {
			return "", err
		}
		meta := ParseMetadata(body)
		if len(meta.SubTasks) > 0 {
			statusByID, err := s.statusByID()
			if err != nil {
				return "", err
			}
			if !meta.CanFinish(statusByID) {
				return "", fmt.Errorf("cannot finish: one or more sub-tasks (%s) are not finished/unsuccessful", strings.Join(meta.SubTasks, ", "))
			}
		}
	}

	newPath, err := SetTaskStatus(path, newStatus)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s -> %s", filepath.Base(path), filepath.Base(newPath)), nil
}

// statusByID maps each task's <id> filename segment to its current status,
// used for sub-task rollup and dependency-readiness checks.
func (s *Store) statusByID() (map[string]Status, error) {
	all, err := s.listAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Status, len(all))
	for _, r := range all {
		if id, ok := idFromFilename(r.Path); ok {
			out[id] = r.Status
		}
	}
	return out, nil
}

// idFromFilename extracts the <id> segment from
// task-<topic-slug>-<id>-<YYYYMMDD>-<HHMMSS>-<status>.md.
func idFromFilename(path string) (string, bool) {
	name := strings.TrimSuffix(filepath.Base(path), ".md")
	name = strings.TrimPrefix(name, "task-")
	parts := strings.Split(name, "-")
	if len(parts) < 5 {
		return "", false
	}
	// parts: [topic..., id, date, time, status] — id is fourth from the end.
	return parts[len(parts)-4], true
}

// Create makes a new open task with a generated id.
func (s *Store) Create(topic, body string) (string, error) {
	id := uuid.NewString()[:8]
	slug := slugSanitizer.ReplaceAllString(strings.ToLower(topic), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "task"
	}

	now := time.Now()
	name := BuildFilename(slug, id, now.Format("20060102"), now.Format("150405"), StatusOpen)
	path := filepath.Join(s.dir, name)

	content := strings.TrimSpace(body)
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("tasks: write %s: %w", path, err)
	}
	return fmt.Sprintf("created %s (id %s)", name, id), nil
}

// Assign sets the task's "## Assigned:" metadata line.
func (s *Store) Assign(idOrPath, agentID string) (string, error) {
	path, err := ResolveTaskPath(s.dir, idOrPath)
	if err != nil {
		return "", err
	}
	body, err := ReadBody(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(setMetadataLine(body, "Assigned", agentID)), 0o644); err != nil {
		return "", fmt.Errorf("tasks: write %s: %w", path, err)
	}
	return fmt.Sprintf("%s assigned to %s", filepath.Base(path), agentID), nil
}

// Sleep transitions a task to paused with a PausedUntil line.
func (s *Store) Sleep(idOrPath string, until time.Time) (string, error) {
	path, err := ResolveTaskPath(s.dir, idOrPath)
	if err != nil {
		return "", err
	}
	body, err := ReadBody(path)
	if err != nil {
		return "", err
	}
	body = setMetadataLine(body, "PausedUntil", until.Format(time.RFC3339))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("tasks: write %s: %w", path, err)
	}

	newPath, err := SetTaskStatus(path, StatusPaused)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s paused until %s", filepath.Base(newPath), until.Format(time.RFC3339)), nil
}

// GetAssignee returns a task's declared assignee, if any.
func (s *Store) GetAssignee(path string) (string, error) {
	body, err := ReadBody(path)
	if err != nil {
		return "", err
	}
	return ParseMetadata(body).Assigned, nil
}
