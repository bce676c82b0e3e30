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
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/walteh/apirewrite/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Migration rewrites legacy client calls and the imports that go with them
type Migration struct {
	calls      CallSpec
	imports    ImportSpec
	rules      []text.ReplacementRule
	legacy     *regexp.Regexp
	importRe   *regexp.Regexp
	initRe     *regexp.Regexp
	replacer   text.TextReplacer
	sourceRoot string

	// fixedPath, when set, replaces the depth-based import path and disables the factory guard
	fixedPath string
}

// New creates a migration whose import path depends on the file's depth below
// sourceRoot. A relative sourceRoot is resolved against the working directory.
func New(calls CallSpec, imports ImportSpec, sourceRoot string) (*Migration, error) {
	if sourceRoot == "" {
		return nil, errors.Errorf("source root is required")
	}
	abs, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, errors.Errorf("resolving source root %s: %w", sourceRoot, err)
	}
	return build(calls, imports, abs, "")
}

// NewFlat creates a migration that always imports the helpers from relPath
func NewFlat(calls CallSpec, imports ImportSpec, relPath string) (*Migration, error) {
	if relPath == "" {
		return nil, errors.Errorf("import path is required")
	}
	return build(calls, imports, "", relPath)
}

func build(calls CallSpec, imports ImportSpec, sourceRoot, fixedPath string) (*Migration, error) {
	if err := calls.Validate(); err != nil {
		return nil, errors.Errorf("validating call spec: %w", err)
	}
	if err := imports.Validate(); err != nil {
		return nil, errors.Errorf("validating import spec: %w", err)
	}
	return &Migration{
		calls:      calls,
		imports:    imports,
		rules:      calls.Rules(),
		legacy:     calls.LegacyCallPattern(),
		importRe:   imports.ImportPattern(),
		initRe:     imports.InitPattern(),
		replacer:   text.NewRegexpReplacer(),
		sourceRoot: sourceRoot,
		fixedPath:  fixedPath,
	}, nil
}

// Rules returns the ordered call-site rules
func (m *Migration) Rules() []text.ReplacementRule {
	return m.rules
}

// Marker is the substring a file must contain to be worth rewriting
func (m *Migration) Marker() string {
	return m.calls.Marker()
}

// InSourceRoot reports whether path lies below the source root. Flat
// migrations have no source root and accept every path.
func (m *Migration) InSourceRoot(path string) bool {
	if m.fixedPath != "" {
		return true
	}
	_, ok := relDir(path, m.sourceRoot)
	return ok
}

// RewriteCalls applies the call-site rules
func (m *Migration) RewriteCalls(content string) string {
	return text.Rewrite(content, m.rules)
}

// RewriteImports swaps the factory import for the helper import and drops the
// client initialization. Without a fixed path, nothing happens unless the
// factory is referenced outside its own import statement.
func (m *Migration) RewriteImports(content, path string) string {
	relPath := m.fixedPath
	if relPath == "" {
		if !strings.Contains(m.importRe.ReplaceAllString(content, ""), m.imports.Factory) {
			return content
		}
		relPath = RelativeImportPath(ImportDepth(path, m.sourceRoot), m.imports.TargetModule)
	}

	// literal replacement: the statement must not be expanded as a template
	content = m.importRe.ReplaceAllLiteralString(content, m.imports.ImportStatement(relPath))
	return m.initRe.ReplaceAllString(content, "")
}

// ImportRuleName is the RuleCounts key for the import rewrite
const ImportRuleName = "import"

// Apply rewrites call sites first, then imports. The result counts matches per
// call rule; a rewritten import counts once under ImportRuleName.
func (m *Migration) Apply(ctx context.Context, content []byte, path string) (*text.ReplacementResult, error) {
	res, err := m.replacer.ReplaceText(ctx, bytes.NewReader(content), m.rules)
	if err != nil {
		return nil, errors.Errorf("rewriting calls in %s: %w", path, err)
	}

	calls := string(res.ModifiedContent)
	out := m.RewriteImports(calls, path)
	if out != calls {
		res.RuleCounts[ImportRuleName]++
		res.ReplacementCount++
	}

	res.ModifiedContent = []byte(out)
	res.WasModified = out != string(res.OriginalContent)
	return res, nil
}

// CountLegacyCalls counts call sites that still use the legacy client, rewritable or not
func (m *Migration) CountLegacyCalls(content string) int {
	return text.CountMatches(content, m.legacy)
}
