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

package migrate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📥 ImportSpec describes the factory import being replaced and the helper import replacing it
type ImportSpec struct {
	Factory       string   // factory function, e.g. generateClient
	FactoryModule string   // module the factory is imported from
	Receiver      string   // name of the handle the factory initializes
	Helpers       []string // helper functions imported instead
	TargetModule  string   // helper module path below the source root, e.g. lib/api
}

// DefaultImportSpec returns the generateClient -> lib/api migration
func DefaultImportSpec() ImportSpec {
	return ImportSpec{
		Factory:       "generateClient",
		FactoryModule: "aws-amplify/api",
		Receiver:      "client",
		Helpers:       []string{"get", "post", "put", "del"},
		TargetModule:  "lib/api",
	}
}

// Validate checks that every field needed to build the import rules is set
func (s ImportSpec) Validate() error {
	switch {
	case s.Factory == "":
		return errors.Errorf("factory is required")
	case s.FactoryModule == "":
		return errors.Errorf("factory module is required")
	case s.Receiver == "":
		return errors.Errorf("receiver is required")
	case len(s.Helpers) == 0:
		return errors.Errorf("at least one helper is required")
	case s.TargetModule == "":
		return errors.Errorf("target module is required")
	}
	return nil
}

// ImportPattern matches `import { generateClient } from 'aws-amplify/api';`
func (s ImportSpec) ImportPattern() *regexp.Regexp {
	return regexp.MustCompile(`import\s*\{\s*` + regexp.QuoteMeta(s.Factory) + `\s*\}\s*from\s*['"]` +
		regexp.QuoteMeta(s.FactoryModule) + `['"];?`)
}

// InitPattern matches `const client = generateClient();` and one trailing newline
func (s ImportSpec) InitPattern() *regexp.Regexp {
	return regexp.MustCompile(`const\s+` + regexp.QuoteMeta(s.Receiver) + `\s*=\s*` +
		regexp.QuoteMeta(s.Factory) + `\(\);?\n?`)
}

// ImportStatement renders the helper import for a relative module path
func (s ImportSpec) ImportStatement(relPath string) string {
	return fmt.Sprintf("import { %s } from '%s';", strings.Join(s.Helpers, ", "), relPath)
}

// ImportDepth returns how many directories lie between sourceRoot and the
// directory holding path. Both are resolved to absolute paths first, so a
// relative one may be mixed with an absolute one. Files directly in or
// outside sourceRoot have depth 0.
func ImportDepth(path, sourceRoot string) int {
	rel, ok := relDir(path, sourceRoot)
	if !ok || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

// relDir returns the directory of path relative to sourceRoot, and false when
// it is not below sourceRoot
func relDir(path, sourceRoot string) (string, bool) {
	root, err := filepath.Abs(sourceRoot)
	if err != nil {
		return "", false
	}
	file, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// RelativeImportPath returns the import path of target for a file at depth.
// Depths outside 1..3 fall back to two levels up.
func RelativeImportPath(depth int, target string) string {
	switch depth {
	case 1:
		return "../" + target
	case 2:
		return "../../" + target
	case 3:
		return "../../../" + target
	default:
		return "../../" + target
	}
}
