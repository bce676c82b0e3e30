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

package operation_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/operation"
	"github.com/walteh/apirewrite/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// failingReads fails every read of one path
type failingReads struct {
	*status.Manager
	fail string
}

func (f failingReads) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if path == f.fail {
		return nil, errors.New("permission denied")
	}
	return f.Manager.ReadFile(ctx, path)
}

// 🧪 TestVerify tests import verification over a mixed tree
func TestVerify(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	ctx, _ := newContext(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ok.js":           "import { get, post } from '../lib/api';\nexport const a = async () => { await get('/a'); await post('/b', x); };\n",
		"admin/names.jsx": "import { get } from '../../lib/api';\nexport const d = async () => { await get('/a'); await del('/b'); };\n",
		"none.js":         "export const p = async () => await put('/p', x);\n",
		"legacy.js":       "import { generateClient } from 'aws-amplify/api';\nexport const g = async () => await get('/g');\n",
		"unused.js":       "export const z = 1;\n",
		"alias.js":        "import { get, post as p } from '../lib/api';\nexport const a = async () => { await get('/a'); await post('/b', x); };\n",
		"renamed.js":      "import { get, post as p } from '../lib/api';\nexport const a = async () => { await get('/a'); await p('/b', x); };\n",
		"broken.js":       "export const b = async () => await get('/b');\n",
	})

	out := &bytes.Buffer{}
	report, err := operation.Verify(ctx, operation.VerifyOptions{
		Root:       root,
		Extensions: []string{".jsx", ".js"},
		Imports:    migrate.DefaultImportSpec(),
		Files:      failingReads{Manager: status.NewManager(), fail: filepath.Join(root, "broken.js")},
		Out:        out,
	})
	require.NoError(t, err)

	byPath := make(map[string]operation.FileCheck)
	for _, fc := range report.Files {
		byPath[filepath.Base(fc.Path)] = fc
	}

	tests := []struct {
		name     string
		file     string
		check    operation.ImportCheck
		used     []string
		missing  []string
		imported []string
	}{
		{name: "all_imported", file: "ok.js", check: operation.CheckOK, used: []string{"get", "post"}, imported: []string{"get", "post"}},
		{name: "missing_names", file: "names.jsx", check: operation.CheckMissingNames, used: []string{"get", "del"}, missing: []string{"del"}, imported: []string{"get"}},
		{name: "missing_import", file: "none.js", check: operation.CheckMissingImport, used: []string{"put"}, missing: []string{"put"}},
		{name: "legacy_import", file: "legacy.js", check: operation.CheckLegacy, used: []string{"get"}},
		{name: "aliased_name_is_not_bound", file: "alias.js", check: operation.CheckMissingNames, used: []string{"get", "post"}, missing: []string{"post"}, imported: []string{"get", "p"}},
		{name: "aliased_name_called_by_alias", file: "renamed.js", check: operation.CheckOK, used: []string{"get"}, imported: []string{"get", "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, ok := byPath[tt.file]
			require.True(t, ok, "file should be in the report")
			assert.Equal(t, tt.check, fc.Check)
			assert.Equal(t, tt.used, fc.Used)
			assert.Equal(t, tt.missing, fc.Missing)
			assert.Equal(t, tt.imported, fc.Imported)
		})
	}

	_, listed := byPath["unused.js"]
	assert.False(t, listed, "files that call no helper are not checked")

	broken, ok := byPath["broken.js"]
	require.True(t, ok)
	assert.Equal(t, operation.CheckUnreadable, broken.Check)
	assert.False(t, broken.Check.IsIssue(), "unreadable files are warnings, not issues")

	assert.Equal(t, 3, report.Issues())
	assert.Contains(t, out.String(), "Missing imports: del")
	assert.Contains(t, out.String(), "Missing imports: post")
	assert.Contains(t, out.String(), "Missing API import entirely!")
	assert.Contains(t, out.String(), "(uses Amplify API)")
	assert.Contains(t, out.String(), "Found 3 issue(s)")
}

func TestVerify_Clean(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	ctx, _ := newContext(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"hooks/useEvents.js": "import { get, post, put, del } from '../lib/api';\nexport const a = async () => await del('/a');\n",
	})

	out := &bytes.Buffer{}
	report, err := operation.Verify(ctx, operation.VerifyOptions{
		Root:       root,
		Extensions: []string{".js"},
		Imports:    migrate.DefaultImportSpec(),
		Out:        out,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Issues())
	require.Len(t, report.Files, 1)
	assert.Equal(t, "ok", report.Files[0].Check.String())
	assert.Contains(t, out.String(), "Found 0 issue(s)")
}

func TestVerify_MissingRoot(t *testing.T) {
	ctx, _ := newContext(t)
	_, err := operation.Verify(ctx, operation.VerifyOptions{
		Root:       filepath.Join(t.TempDir(), "missing"),
		Extensions: []string{".js"},
		Imports:    migrate.DefaultImportSpec(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
