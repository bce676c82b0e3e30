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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📂 checkRoot fails unless root exists and is a directory
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("directory %s not found: %w", root, err)
		}
		return errors.Errorf("checking directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", root)
	}
	return nil
}

// extensionGlob turns [".jsx", ".js"] into "*{.jsx,.js}"
func extensionGlob(exts []string) string {
	if len(exts) == 1 {
		return "*" + exts[0]
	}
	return "*{" + strings.Join(exts, ",") + "}"
}

// 🔍 listFiles returns the files below root whose names end in one of exts,
// sorted, with ignored paths removed. Without recursive only root itself is read.
func listFiles(ctx context.Context, root string, exts []string, ignore []string, recursive bool) ([]string, error) {
	if len(exts) == 0 {
		return nil, errors.Errorf("at least one extension is required")
	}

	pattern := extensionGlob(exts)
	if recursive {
		pattern = "**/" + pattern
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %s in %s: %w", pattern, root, err)
	}

	seen := make(map[string]bool, len(matches))
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if seen[match] || shouldIgnore(ctx, match, ignore) {
			continue
		}
		seen[match] = true
		files = append(files, match)
	}
	sort.Strings(files)

	for i, f := range files {
		files[i] = filepath.Join(root, filepath.FromSlash(f))
	}

	zerolog.Ctx(ctx).Debug().
		Str("root", root).
		Str("pattern", pattern).
		Int("files", len(files)).
		Msg("enumerated source files")

	return files, nil
}

// 🚫 shouldIgnore checks a slash-separated path relative to the root against the ignore globs
func shouldIgnore(ctx context.Context, path string, ignore []string) bool {
	for _, pattern := range ignore {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", path).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Trace().Str("file", path).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}
