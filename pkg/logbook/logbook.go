// Package logbook appends a human-readable record of every chat turn to a log file.
package logbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	loggerpkg "github.com/minhyannv/persona-chat/pkg/logger"
)

// Mode selects how the log file is chosen and reused.
type Mode string

const (
	// ModeRotate starts a new timestamped file per process.
	ModeRotate Mode = "rotate"
	// ModeAppend reuses one file across runs.
	ModeAppend Mode = "append"
	// ModeOverwrite truncates the file once per process, then appends.
	ModeOverwrite Mode = "overwrite"
)

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRotate, ModeAppend, ModeOverwrite:
		return m, nil
	default:
		return "", fmt.Errorf("unknown log mode %q", s)
	}
}

const (
	width         = 60
	rotateLayout  = "20060102_150405.000"
	displayLayout = "2006-01-02 15:04:05"
)

// Entry is one completed turn.
type Entry struct {
	SessionID string
	Persona   string
	Timestamp time.Time
	Input     string
	Response  string
}

// Options configures a Manager.
type Options struct {
	Enabled   bool
	Mode      Mode
	Directory string
	Filename  string
	Now       func() time.Time
	Logger    loggerpkg.Logger
}

// Manager owns the log file for one process. The path is resolved lazily, at
// most once, and every write is an O_APPEND write.
type Manager struct {
	opts Options

	mu       sync.Mutex
	path     string
	resolved bool
}

// New builds a Manager. Nothing touches the filesystem until the first Record or Resolve.
func New(opts Options) *Manager {
	if opts.Mode == "" {
		opts.Mode = ModeRotate
	}
	if opts.Filename == "" {
		opts.Filename = "chat.log"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Logger = loggerpkg.OrNop(opts.Logger)
	return &Manager{opts: opts}
}

// Enabled reports whether Record writes anything.
func (m *Manager) Enabled() bool {
	return m.opts.Enabled
}

// Directory is the configured log directory.
func (m *Manager) Directory() string {
	return m.opts.Directory
}

// Resolve returns the log path, creating the directory and applying the mode
// on the first successful call only. A failed resolution is retried next time.
func (m *Manager) Resolve() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resolved {
		return m.path, nil
	}

	dir := m.opts.Directory
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	var path string
	switch m.opts.Mode {
	case ModeRotate:
		p, err := rotatedPath(dir, m.opts.Filename, m.opts.Now())
		if err != nil {
			return "", err
		}
		path = p
	case ModeAppend:
		path = filepath.Join(dir, m.opts.Filename)
	case ModeOverwrite:
		path = filepath.Join(dir, m.opts.Filename)
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return "", fmt.Errorf("truncate log file: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown log mode %q", m.opts.Mode)
	}

	m.path = path
	m.resolved = true
	m.opts.Logger.Debug("log file resolved", map[string]any{"path": path, "mode": string(m.opts.Mode)})
	return path, nil
}

// rotatedPath derives <stem>_<timestamp><ext>. If a previous process already
// took that name, a numeric suffix keeps the paths distinct.
func rotatedPath(dir, filename string, now time.Time) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".log"
	}
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if stem == "" {
		stem = "chat"
	}
	base := fmt.Sprintf("%s_%s", stem, now.Format(rotateLayout))

	for i := 0; i < 1000; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		path := filepath.Join(dir, name)
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("no free rotated log name for %s", base)
}

// Record appends entry to the log file. Failures go to the diagnostic logger
// and never reach the caller.
func (m *Manager) Record(entry Entry) {
	if !m.opts.Enabled {
		return
	}
	if err := m.append(entry); err != nil {
		m.opts.Logger.Warn("conversation log write failed", map[string]any{
			"error":   err.Error(),
			"session": entry.SessionID,
			"persona": entry.Persona,
		})
	}
}

func (m *Manager) append(entry Entry) error {
	path, err := m.Resolve()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if _, err := f.WriteString(Format(entry)); err != nil {
		_ = f.Close()
		return fmt.Errorf("append log entry: %w", err)
	}
	return f.Close()
}

// Format renders entry as a fixed-width block followed by a blank line.
func Format(entry Entry) string {
	heavy := strings.Repeat("=", width)
	light := strings.Repeat("-", width)
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "Persona : %s\n", entry.Persona)
	fmt.Fprintf(&b, "Time    : %s\n", ts.Local().Format(displayLayout))
	b.WriteString(light + "\n")
	b.WriteString("Input:\n")
	b.WriteString(strings.TrimSpace(entry.Input) + "\n")
	b.WriteString(light + "\n")
	b.WriteString("Response:\n")
	b.WriteString(strings.TrimSpace(entry.Response) + "\n")
	b.WriteString(heavy + "\n\n")
	return b.String()
}
