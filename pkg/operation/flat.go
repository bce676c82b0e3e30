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

	"github.com/walteh/apirewrite/pkg/log"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 FlatOptions configures a single-directory rewrite
type FlatOptions struct {
	// Dir is the directory whose files are rewritten. Subdirectories are not visited.
	Dir string
	// Extensions are globbed one after the other, in this order
	Extensions []string
	// Migration is normally built with migrate.NewFlat
	Migration *migrate.Migration
	// Files reads and writes the sources. Defaults to status.NewManager().
	Files status.FileManager
}

// 📁 RewriteFlat rewrites every matching file directly inside opts.Dir with no
// marker pre-filter, printing "Fixed <file>" per change and "Done!" at the end.
func RewriteFlat(ctx context.Context, opts FlatOptions) (*status.Summary, error) {
	if opts.Migration == nil {
		return nil, errors.Errorf("migration is required")
	}
	if len(opts.Extensions) == 0 {
		return nil, errors.Errorf("at least one extension is required")
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := checkRoot(dir); err != nil {
		return nil, err
	}

	tracker := status.NewManager()
	files := opts.Files
	if files == nil {
		files = tracker
	}
	logger := log.FromContext(ctx)

	var paths []string
	for _, ext := range opts.Extensions {
		found, err := listFiles(ctx, dir, []string{ext}, nil, false)
		if err != nil {
			return nil, errors.Errorf("listing files: %w", err)
		}
		paths = append(paths, found...)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("rewrite interrupted: %w", err)
		}

		// an empty marker makes every file a candidate
		rec, _ := rewriteFile(ctx, files, opts.Migration, "", path, false)
		switch rec.Status {
		case status.StatusModified:
			logger.Plainf("Fixed %s", path)
		case status.StatusFailed:
			logger.Errorf("Error processing %s: %v", path, rec.Err)
		}
		tracker.Track(ctx, rec)
	}

	logger.Plain("Done!")

	return tracker.Summary(), nil
}
