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

package operation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/apirewrite/pkg/log"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a recursive rewrite pass
type Options struct {
	// Root is the directory walked recursively
	Root string
	// Extensions are the recognized file name suffixes, e.g. ".jsx"
	Extensions []string
	// Ignore holds doublestar globs, relative to Root, that are skipped
	Ignore []string
	// Marker is the substring a file must contain to be rewritten. Defaults to the migration's marker.
	Marker string
	// Migration is the rule set applied to every candidate
	Migration *migrate.Migration
	// Files reads and writes the sources. Defaults to status.NewManager().
	Files status.FileManager
	// DryRun prints a diff for each file that would change instead of writing it
	DryRun bool
}

func (o *Options) validate() error {
	if o.Root == "" {
		return errors.Errorf("root directory is required")
	}
	if o.Migration == nil {
		return errors.Errorf("migration is required")
	}
	if len(o.Extensions) == 0 {
		return errors.Errorf("at least one extension is required")
	}
	return nil
}

// 🔄 Rewrite migrates every candidate file below opts.Root, prints one line per
// modified file and the summary, then counts the legacy calls that are left.
// Only a missing root or an enumeration failure is returned as an error;
// per-file failures are reported and counted.
func Rewrite(ctx context.Context, opts Options) (*status.Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}
	if err := checkRoot(opts.Root); err != nil {
		return nil, err
	}

	marker := opts.Marker
	if marker == "" {
		marker = opts.Migration.Marker()
	}

	tracker := status.NewManager()
	files := opts.Files
	if files == nil {
		files = tracker
	}

	logger := log.FromContext(ctx)
	zlog := zerolog.Ctx(ctx)

	paths, err := listFiles(ctx, opts.Root, opts.Extensions, opts.Ignore, true)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("rewrite interrupted: %w", err)
		}

		rec, candidate := rewriteFile(ctx, files, opts.Migration, marker, path, opts.DryRun)
		if !candidate {
			zlog.Trace().Str("file", path).Str("marker", marker).Msg("no marker, skipping")
			continue
		}
		if rec.Changed && !opts.Migration.InSourceRoot(path) {
			logger.Warningf("%s is outside the source root, its import path may be wrong", path)
		}

		switch rec.Status {
		case status.StatusModified, status.StatusFailed:
			logger.LogFileOperation(ctx, rec)
		case status.StatusPreview:
			logger.LogFileOperation(ctx, rec)
			logger.LogDiff(ctx, path, lineDiff(string(rec.Original), string(rec.Transformed)))
		}
		tracker.Track(ctx, rec)
	}

	logger.LogSummary(ctx, *tracker.Summary())

	if err := countRemaining(ctx, files, tracker, opts); err != nil {
		return nil, err
	}

	summary := tracker.Summary()
	logger.LogRemaining(ctx, marker, *summary)

	return summary, nil
}

// 📄 rewriteFile reads, rewrites and writes back one file. The second result is
// false when the file does not hold the marker and was left alone.
func rewriteFile(ctx context.Context, files status.FileManager, m *migrate.Migration, marker, path string, dryRun bool) (status.FileRecord, bool) {
	rec := status.FileRecord{Path: path}

	content, err := files.ReadFile(ctx, path)
	if err != nil {
		rec.Status = status.StatusFailed
		rec.Err = err
		return rec, true
	}

	if !strings.Contains(string(content), marker) {
		return rec, false
	}

	rec.Original = content
	res, err := m.Apply(ctx, content, path)
	if err != nil {
		rec.Status = status.StatusFailed
		rec.Err = err
		return rec, true
	}
	rec.Transformed = res.ModifiedContent
	rec.Changed = res.WasModified
	rec.ReplacementCount = res.ReplacementCount
	rec.RuleCounts = res.RuleCounts

	switch {
	case !rec.Changed:
		rec.Status = status.StatusUnchanged
	case dryRun:
		rec.Status = status.StatusPreview
	default:
		if err := files.WriteFile(ctx, path, rec.Transformed); err != nil {
			rec.Status = status.StatusFailed
			rec.Err = err
			return rec, true
		}
		rec.Status = status.StatusModified
	}

	return rec, true
}

// 🔎 countRemaining enumerates root again and records every file that still
// holds legacy calls. This pass never rewrites anything.
func countRemaining(ctx context.Context, files status.FileManager, tracker *status.Manager, opts Options) error {
	paths, err := listFiles(ctx, opts.Root, opts.Extensions, opts.Ignore, true)
	if err != nil {
		return errors.Errorf("listing files for verification: %w", err)
	}

	logger := log.FromContext(ctx)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("verification interrupted: %w", err)
		}

		content, err := files.ReadFile(ctx, path)
		if err != nil {
			logger.Warningf("Skipping unreadable file %s: %v", path, err)
			continue
		}
		tracker.TrackRemaining(ctx, path, opts.Migration.CountLegacyCalls(string(content)))
	}
	return nil
}
