// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of rewriting one file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusModified             // Content changed and was written back
	StatusUnchanged            // No rule matched
	StatusFailed               // Reading or writing failed
	StatusPreview              // Content would change, dry run
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	case StatusPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// 📄 FileRecord is one file's trip through the rewriter. It lives only until the write-back.
type FileRecord struct {
	Path             string         // File path as enumerated
	Original         []byte         // Content as read
	Transformed      []byte         // Content after all rules
	Changed          bool           // Whether Transformed differs from Original
	ReplacementCount int            // Matches replaced, over all rules
	RuleCounts       map[string]int // Matches replaced per rule name
	Status           FileStatus     // Outcome
	Err              error          // Read or write error, if any
}

// 🔎 Remaining is a file that still holds legacy call sites after the pass
type Remaining struct {
	Path  string
	Count int
}

// 📋 Summary is the printed outcome of one run
type Summary struct {
	Processed    int         // Candidate files considered
	Modified     int         // Files written back (or that would be, in a dry run)
	Failed       int         // Files whose read or write failed
	Replacements int         // Matches replaced in modified files
	Remaining    []Remaining // Verification pass results, files with a non-zero count only
}

// RemainingTotal sums the remaining call sites over all files
func (s Summary) RemainingTotal() int {
	total := 0
	for _, r := range s.Remaining {
		total += r.Count
	}
	return total
}

// 💾 FileManager reads and overwrites source files
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
}

// 🔧 Manager implements FileManager with plain in-place writes and keeps the run summary
type Manager struct {
	summary Summary
}

// 🏭 NewManager creates a new status manager
func NewManager() *Manager {
	return &Manager{}
}

// ReadFile reads the whole file
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile overwrites the file in place, keeping its permissions. No backup, no temp file.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("checking file: %w", err)
	}

	if err := os.WriteFile(path, content, info.Mode().Perm()); err != nil {
		return errors.Errorf("writing file: %w", err)
	}
	return nil
}

// Track counts the outcome for a file. Contents are not retained.
func (m *Manager) Track(ctx context.Context, rec FileRecord) {
	m.summary.Processed++
	switch rec.Status {
	case StatusModified, StatusPreview:
		m.summary.Modified++
		m.summary.Replacements += rec.ReplacementCount
	case StatusFailed:
		m.summary.Failed++
	}

	ev := zerolog.Ctx(ctx).Debug().
		Str("path", rec.Path).
		Stringer("status", rec.Status).
		Bool("changed", rec.Changed).
		Int("replacements", rec.ReplacementCount).
		AnErr("error", rec.Err)
	if len(rec.RuleCounts) > 0 {
		rules := zerolog.Dict()
		for name, n := range rec.RuleCounts {
			rules.Int(name, n)
		}
		ev = ev.Dict("rules", rules)
	}
	ev.Msg("file processed")
}

// TrackRemaining records a file that still contains legacy call sites
func (m *Manager) TrackRemaining(ctx context.Context, path string, count int) {
	if count <= 0 {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("remaining", count).Msg("legacy calls remain")
	m.summary.Remaining = append(m.summary.Remaining, Remaining{Path: path, Count: count})
}

// Summary returns a copy of the run summary
func (m *Manager) Summary() *Summary {
	s := m.summary
	s.Remaining = append([]Remaining(nil), m.summary.Remaining...)
	return &s
}
