// Package retention deletes conversation log files older than a threshold.
package retention

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDays applies when neither minutes nor days is positive.
const DefaultDays = 7

// DefaultExt is the extension of files eligible for pruning.
const DefaultExt = ".log"

// Threshold resolves the cutoff instant. Minutes win over days when positive,
// days win over the DefaultDays fallback.
func Threshold(now time.Time, minutes, days int) time.Time {
	switch {
	case minutes > 0:
		return now.Add(-time.Duration(minutes) * time.Minute)
	case days > 0:
		return now.AddDate(0, 0, -days)
	default:
		return now.AddDate(0, 0, -DefaultDays)
	}
}

// Failure records a file that could not be inspected or removed.
type Failure struct {
	Path string
	Err  error
}

// Result summarises one prune run.
type Result struct {
	Scanned    int
	Deleted    int
	DirMissing bool
	Failures   []Failure
}

func (r Result) String() string {
	if r.DirMissing {
		return "log directory does not exist"
	}
	s := fmt.Sprintf("scanned %d file(s), deleted %d", r.Scanned, r.Deleted)
	if len(r.Failures) > 0 {
		s += fmt.Sprintf(", %d failure(s)", len(r.Failures))
	}
	return s
}

// Prune removes regular files directly under dir whose extension matches ext
// and whose modification time is before threshold. A missing dir is reported in
// Result, not as an error. Per-file failures are collected and the scan goes on.
func Prune(dir, ext string, threshold time.Time) (Result, error) {
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var res Result
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.DirMissing = true
			return res, nil
		}
		return res, fmt.Errorf("read log dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		res.Scanned++

		info, err := entry.Info()
		if err != nil {
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
			continue
		}
		if !info.ModTime().Before(threshold) {
			continue
		}
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
			continue
		}
		res.Deleted++
	}
	return res, nil
}
