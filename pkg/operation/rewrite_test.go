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
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/apirewrite/pkg/log"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/operation"
	"github.com/walteh/apirewrite/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const eventsJSX = `import React from 'react';
import { generateClient } from 'aws-amplify/api';

const client = generateClient();

export async function load(id) {
  const events = await client.get('CalisthenicsAPI', '/events');
  const one = await client.get('CalisthenicsAPI', ` + "`/events/${id}`" + `, { queryStringParameters: { id: 1 } });
  await client.post('CalisthenicsAPI', '/events', { body: payload });
  await client.del("CalisthenicsAPI", "/events/1");
  return [events, one];
}
`

const eventsJSXWant = `import React from 'react';
import { get, post, put, del } from '../lib/api';


export async function load(id) {
  const events = await get('/events');
  const one = await get(` + "`/events/${id}`" + `);
  await post('/events', payload);
  await del("/events/1");
  return [events, one];
}
`

const formJS = `import { generateClient } from "aws-amplify/api";
const client = generateClient();
export const save = (id, data) => client.put('CalisthenicsAPI', ` + "`/forms/${id}`" + `, { body: data });
`

const formJSWant = `import { get, post, put, del } from '../../lib/api';
export const save = (id, data) => put(` + "`/forms/${id}`" + `, data);
`

const multiJSX = `export const list = () =>
  client.get(
    'CalisthenicsAPI',
    '/multi'
  );
`

const plainJS = "export const answer = 42;\n"

const vendoredJS = "module.exports = () => client.get('CalisthenicsAPI', '/vendored');\n"

// 🧪 testEnv holds a source tree laid out like a frontend project
type testEnv struct {
	ctx     context.Context
	console *bytes.Buffer
	src     string
	root    string
}

func (e testEnv) path(rel string) string {
	return filepath.Join(e.root, filepath.FromSlash(rel))
}

func (e testEnv) read(t *testing.T, rel string) string {
	t.Helper()
	content, err := os.ReadFile(e.path(rel))
	require.NoError(t, err)
	return string(content)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	zlog := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	console := &bytes.Buffer{}
	ctx := zlog.WithContext(context.Background())
	ctx = log.NewContext(ctx, log.New(console, zlog))
	return ctx, console
}

// 🏗️ setupTestEnv creates src/components with the standard fixtures
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx, console := newContext(t)

	src := filepath.Join(t.TempDir(), "src")
	root := filepath.Join(src, "components")
	writeFiles(t, root, map[string]string{
		"Events.jsx":                   eventsJSX,
		"admin/Form.js":                formJS,
		"Multi.jsx":                    multiJSX,
		"Plain.js":                     plainJS,
		"node_modules/vendor/index.js": vendoredJS,
		"README.md":                    "client.get('CalisthenicsAPI', '/docs')\n",
	})

	return testEnv{ctx: ctx, console: console, src: src, root: root}
}

func (e testEnv) options(t *testing.T) operation.Options {
	t.Helper()
	m, err := migrate.New(migrate.DefaultCallSpec(), migrate.DefaultImportSpec(), e.src)
	require.NoError(t, err)
	return operation.Options{
		Root:       e.root,
		Extensions: []string{".jsx", ".js"},
		Ignore:     []string{"**/node_modules/**"},
		Migration:  m,
	}
}

// 🧪 TestRewrite tests a full pass over the fixture tree
func TestRewrite(t *testing.T) {
	env := setupTestEnv(t)

	summary, err := operation.Rewrite(env.ctx, env.options(t))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed, "only files holding the marker are processed")
	assert.Equal(t, 2, summary.Modified)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 7, summary.Replacements, "five in Events.jsx, two in Form.js, imports included")
	assert.Equal(t, []status.Remaining{{Path: env.path("Multi.jsx"), Count: 1}}, summary.Remaining)

	assert.Equal(t, eventsJSXWant, env.read(t, "Events.jsx"))
	assert.Equal(t, formJSWant, env.read(t, "admin/Form.js"))
	assert.Equal(t, multiJSX, env.read(t, "Multi.jsx"), "multi-line calls are left alone")
	assert.Equal(t, plainJS, env.read(t, "Plain.js"))
	assert.Equal(t, vendoredJS, env.read(t, "node_modules/vendor/index.js"), "ignored files are never touched")

	out := env.console.String()
	assert.Contains(t, out, "✓ Modified: "+env.path("Events.jsx"))
	assert.Contains(t, out, "✓ Modified: "+env.path("admin/Form.js"))
	assert.NotContains(t, out, "Modified: "+env.path("Multi.jsx"), "unchanged files get no progress line")
	assert.Contains(t, out, "\nProcessed 3 files, modified 2 files\n")
	assert.Contains(t, out, "  "+env.path("Multi.jsx")+": 1 remaining")
	assert.Contains(t, out, "\n⚠️  Remaining client. calls: 1\n")
}

func TestRewrite_Idempotent(t *testing.T) {
	env := setupTestEnv(t)
	opts := env.options(t)

	_, err := operation.Rewrite(env.ctx, opts)
	require.NoError(t, err)
	first := env.read(t, "Events.jsx")

	summary, err := operation.Rewrite(env.ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Modified, "second run should change nothing")
	assert.Equal(t, first, env.read(t, "Events.jsx"))
	assert.Equal(t, 1, summary.RemainingTotal())
}

func TestRewrite_DryRun(t *testing.T) {
	env := setupTestEnv(t)
	opts := env.options(t)
	opts.DryRun = true

	summary, err := operation.Rewrite(env.ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Modified, "previews count as modified")
	assert.Equal(t, eventsJSX, env.read(t, "Events.jsx"), "dry run must not write")
	assert.Equal(t, formJS, env.read(t, "admin/Form.js"), "dry run must not write")
	assert.Equal(t, 6, summary.RemainingTotal(), "nothing was written, so every call remains")

	out := env.console.String()
	assert.Contains(t, out, "⟳ Would modify: "+env.path("Events.jsx"))
	assert.Contains(t, out, "--- "+env.path("admin/Form.js"))
	assert.Contains(t, out, "-const client = generateClient();")
	assert.Contains(t, out, "+export const save = (id, data) => put(`/forms/${id}`, data);")
}

// failingWrites fails every write to one path
type failingWrites struct {
	*status.Manager
	fail string
}

func (f failingWrites) WriteFile(ctx context.Context, path string, content []byte) error {
	if path == f.fail {
		return errors.New("permission denied")
	}
	return f.Manager.WriteFile(ctx, path, content)
}

func TestRewrite_WriteFailure(t *testing.T) {
	env := setupTestEnv(t)
	opts := env.options(t)
	opts.Files = failingWrites{Manager: status.NewManager(), fail: env.path("Events.jsx")}

	summary, err := operation.Rewrite(env.ctx, opts)
	require.NoError(t, err, "a per-file failure must not abort the batch")

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Modified)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, eventsJSX, env.read(t, "Events.jsx"))
	assert.Equal(t, formJSWant, env.read(t, "admin/Form.js"), "later files are still processed")

	out := env.console.String()
	assert.Contains(t, out, "❌ Error processing "+env.path("Events.jsx")+": permission denied")
	assert.Contains(t, out, "Processed 3 files, modified 1 files, 1 failed")
}

func TestRewrite_ReadFailure(t *testing.T) {
	env := setupTestEnv(t)
	opts := env.options(t)
	opts.Files = failingReads{Manager: status.NewManager(), fail: env.path("Events.jsx")}

	summary, err := operation.Rewrite(env.ctx, opts)
	require.NoError(t, err, "an unreadable file must not abort the batch or the verification pass")

	assert.Equal(t, 3, summary.Processed, "the unreadable file still counts as processed")
	assert.Equal(t, 1, summary.Modified)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, eventsJSX, env.read(t, "Events.jsx"))
	assert.Equal(t, formJSWant, env.read(t, "admin/Form.js"), "later files are still processed")
	assert.Equal(t, []status.Remaining{{Path: env.path("Multi.jsx"), Count: 1}}, summary.Remaining, "the unreadable file is skipped when counting")

	out := env.console.String()
	assert.Contains(t, out, "❌ Error processing "+env.path("Events.jsx")+": permission denied")
	assert.Contains(t, out, "Processed 3 files, modified 1 files, 1 failed")
	assert.Contains(t, out, "⚠️  Skipping unreadable file "+env.path("Events.jsx")+": permission denied")
	assert.Contains(t, out, "Remaining client. calls: 1")
}

func TestRewrite_OutsideSourceRoot(t *testing.T) {
	env := setupTestEnv(t)
	opts := env.options(t)

	m, err := migrate.New(migrate.DefaultCallSpec(), migrate.DefaultImportSpec(), filepath.Join(t.TempDir(), "web"))
	require.NoError(t, err)
	opts.Migration = m

	summary, err := operation.Rewrite(env.ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Modified)
	assert.Contains(t, env.read(t, "Events.jsx"), "from '../../lib/api';", "files outside the source root fall back to two levels up")

	out := env.console.String()
	assert.Contains(t, out, "⚠️  "+env.path("Events.jsx")+" is outside the source root")
	assert.Contains(t, out, "⚠️  "+env.path("admin/Form.js")+" is outside the source root")
	assert.NotContains(t, out, env.path("Multi.jsx")+" is outside", "unchanged files are not warned about")
}

func TestRewrite_RootErrors(t *testing.T) {
	ctx, console := newContext(t)
	m, err := migrate.New(migrate.DefaultCallSpec(), migrate.DefaultImportSpec(), "src")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "file.js")
	require.NoError(t, os.WriteFile(file, []byte(plainJS), 0644))

	tests := []struct {
		name    string
		opts    operation.Options
		wantErr string
	}{
		{
			name:    "missing_root",
			opts:    operation.Options{Root: filepath.Join(t.TempDir(), "missing"), Extensions: []string{".js"}, Migration: m},
			wantErr: "not found",
		},
		{
			name:    "root_is_file",
			opts:    operation.Options{Root: file, Extensions: []string{".js"}, Migration: m},
			wantErr: "is not a directory",
		},
		{
			name:    "no_migration",
			opts:    operation.Options{Root: t.TempDir(), Extensions: []string{".js"}},
			wantErr: "migration is required",
		},
		{
			name:    "no_extensions",
			opts:    operation.Options{Root: t.TempDir(), Migration: m},
			wantErr: "at least one extension is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := operation.Rewrite(ctx, tt.opts)
			require.Error(t, err)
			assert.Nil(t, summary)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Empty(t, console.String(), "nothing is printed before the preconditions hold")
}

func TestRewrite_Cancelled(t *testing.T) {
	env := setupTestEnv(t)
	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	_, err := operation.Rewrite(ctx, env.options(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, eventsJSX, env.read(t, "Events.jsx"))
}

func TestRewrite_AdversarialFixture(t *testing.T) {
	ctx, _ := newContext(t)
	src := filepath.Join(t.TempDir(), "src")
	root := filepath.Join(src, "components")

	content := `const a = await client.get('CalisthenicsAPI', '/a');
const b = await client.post(
  'CalisthenicsAPI',
  '/b',
  { body: b }
);
// client.get is mentioned here, but is not a call to rewrite: client.getter
const c = await client.put('CalisthenicsAPI', '/c', { body: { nested: true } });
const d = apiclient.get('CalisthenicsAPI', '/d');
`
	writeFiles(t, root, map[string]string{"Adversarial.js": content})

	m, err := migrate.New(migrate.DefaultCallSpec(), migrate.DefaultImportSpec(), src)
	require.NoError(t, err)

	summary, err := operation.Rewrite(ctx, operation.Options{
		Root:       root,
		Extensions: []string{".js"},
		Migration:  m,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "Adversarial.js"))
	require.NoError(t, err)

	assert.Contains(t, string(got), "const a = await get('/a');")
	assert.Contains(t, string(got), "// client.get is mentioned here, but is not a call to rewrite: client.getter")
	assert.Contains(t, string(got), "apiclient.get('CalisthenicsAPI', '/d')")
	assert.Equal(t, 2, summary.RemainingTotal(), "the multi-line post and the nested-brace put remain")
}
