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
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🩺 ImportCheck is the outcome of checking one file's helper imports
type ImportCheck int

const (
	CheckOK            ImportCheck = iota // Every used helper is imported
	CheckLegacy                           // Still imports from the factory module, accepted
	CheckMissingImport                    // Uses helpers without any helper import
	CheckMissingNames                     // Imports the helper module but not every used helper
	CheckUnreadable                       // Could not be read, not counted as an issue
)

// String returns a string representation of ImportCheck
func (c ImportCheck) String() string {
	switch c {
	case CheckOK:
		return "ok"
	case CheckLegacy:
		return "legacy"
	case CheckMissingImport:
		return "missing-import"
	case CheckMissingNames:
		return "missing-names"
	case CheckUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// IsIssue reports whether the check fails verification
func (c ImportCheck) IsIssue() bool {
	return c == CheckMissingImport || c == CheckMissingNames
}

// 📄 FileCheck is the verification result for one file
type FileCheck struct {
	Path     string
	Check    ImportCheck
	Used     []string // Helpers awaited in the file
	Imported []string // Names imported from the helper module
	Missing  []string // Used but not imported
	Err      error
}

// 📋 VerifyReport lists every file that calls a helper
type VerifyReport struct {
	Files []FileCheck
}

// Issues counts the files that fail verification
func (r *VerifyReport) Issues() int {
	n := 0
	for _, f := range r.Files {
		if f.Check.IsIssue() {
			n++
		}
	}
	return n
}

// 🔧 VerifyOptions configures an import verification pass
type VerifyOptions struct {
	Root       string
	Extensions []string
	Ignore     []string
	// Imports names the helpers, the helper module and the legacy factory module
	Imports migrate.ImportSpec
	// Files reads the sources. Defaults to status.NewManager().
	Files status.FileManager
	// Out receives the report. Defaults to os.Stdout.
	Out io.Writer
}

type importMatcher struct {
	usage     map[string]*regexp.Regexp
	helperImp *regexp.Regexp
	legacyImp *regexp.Regexp
}

func newImportMatcher(spec migrate.ImportSpec) importMatcher {
	m := importMatcher{usage: make(map[string]*regexp.Regexp, len(spec.Helpers))}
	for _, h := range spec.Helpers {
		m.usage[h] = regexp.MustCompile(`\bawait\s+` + regexp.QuoteMeta(h) + `\(`)
	}
	m.helperImp = regexp.MustCompile(`import\s*\{\s*([^}]+?)\s*\}\s*from\s*['"][^'"\n]*/` + regexp.QuoteMeta(spec.TargetModule) + `['"]`)
	m.legacyImp = regexp.MustCompile(`import\s*\{\s*([^}]+?)\s*\}\s*from\s*['"]` + regexp.QuoteMeta(spec.FactoryModule) + `['"]`)
	return m
}

// used returns the helpers awaited in content, in helper order
func (m importMatcher) used(content string, helpers []string) []string {
	var out []string
	for _, h := range helpers {
		if m.usage[h].MatchString(content) {
			out = append(out, h)
		}
	}
	return out
}

// importedNames returns the local bindings of an import list: "get, post as p"
// binds ["get", "p"], so a file awaiting post( still lacks post
func importedNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[len(fields)-1])
	}
	return names
}

func (m importMatcher) check(path, content string, helpers []string) FileCheck {
	fc := FileCheck{Path: path, Used: m.used(content, helpers)}

	helperMatch := m.helperImp.FindStringSubmatch(content)
	legacyMatch := m.legacyImp.FindStringSubmatch(content)

	switch {
	case helperMatch == nil && legacyMatch == nil:
		fc.Check = CheckMissingImport
		fc.Missing = fc.Used
	case helperMatch == nil:
		fc.Check = CheckLegacy
	default:
		fc.Imported = importedNames(helperMatch[1])
		for _, u := range fc.Used {
			if !contains(fc.Imported, u) {
				fc.Missing = append(fc.Missing, u)
			}
		}
		fc.Check = CheckOK
		if len(fc.Missing) > 0 {
			fc.Check = CheckMissingNames
		}
	}
	return fc
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ✅ Verify checks that every file awaiting one of the helpers imports it from
// the helper module. Files that still import from the factory module are
// reported as legacy and accepted. The report is printed to opts.Out.
func Verify(ctx context.Context, opts VerifyOptions) (*VerifyReport, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root directory is required")
	}
	if err := opts.Imports.Validate(); err != nil {
		return nil, errors.Errorf("validating import spec: %w", err)
	}
	if err := checkRoot(opts.Root); err != nil {
		return nil, err
	}

	files := opts.Files
	if files == nil {
		files = status.NewManager()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	zlog := zerolog.Ctx(ctx)

	paths, err := listFiles(ctx, opts.Root, opts.Extensions, opts.Ignore, true)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}

	matcher := newImportMatcher(opts.Imports)
	printer := newVerifyPrinter(out)
	printer.header.Println("Verifying API imports...")

	report := &VerifyReport{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("verification interrupted: %w", err)
		}

		content, err := files.ReadFile(ctx, path)
		if err != nil {
			fc := FileCheck{Path: path, Check: CheckUnreadable, Err: err}
			report.Files = append(report.Files, fc)
			printer.print(fc)
			zlog.Warn().Err(err).Str("file", path).Msg("could not read file")
			continue
		}

		if len(matcher.used(string(content), opts.Imports.Helpers)) == 0 {
			continue
		}

		fc := matcher.check(path, string(content), opts.Imports.Helpers)
		report.Files = append(report.Files, fc)
		printer.print(fc)
		zlog.Debug().
			Str("file", path).
			Stringer("check", fc.Check).
			Strs("missing", fc.Missing).
			Msg("verified imports")
	}

	printer.total(report.Issues())

	return report, nil
}

// 🎨 verifyPrinter renders a report with pterm prefix printers
type verifyPrinter struct {
	out     io.Writer
	header  *pterm.PrefixPrinter
	ok      *pterm.PrefixPrinter
	legacy  *pterm.PrefixPrinter
	issue   *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
}

func newVerifyPrinter(out io.Writer) verifyPrinter {
	return verifyPrinter{
		out:     out,
		header:  pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍", Style: pterm.Info.Prefix.Style}).WithWriter(out),
		ok:      pterm.Success.WithPrefix(pterm.Prefix{Text: "✓", Style: pterm.Success.Prefix.Style}).WithWriter(out),
		legacy:  pterm.Info.WithPrefix(pterm.Prefix{Text: "✓", Style: pterm.Info.Prefix.Style}).WithWriter(out),
		issue:   pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style}).WithWriter(out),
		warning: pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️", Style: pterm.Warning.Prefix.Style}).WithWriter(out),
	}
}

func (p verifyPrinter) print(fc FileCheck) {
	switch fc.Check {
	case CheckOK:
		p.ok.Println(fc.Path)
	case CheckLegacy:
		p.legacy.Printf("%s (uses Amplify API)\n", fc.Path)
	case CheckMissingImport:
		p.issue.Println(fc.Path)
		fmt.Fprintf(p.out, "   Missing API import entirely!\n   Uses: %s\n", strings.Join(fc.Used, ", "))
	case CheckMissingNames:
		p.issue.Println(fc.Path)
		fmt.Fprintf(p.out, "   Missing imports: %s\n   Current imports: %s\n", strings.Join(fc.Missing, ", "), strings.Join(fc.Imported, ", "))
	case CheckUnreadable:
		p.warning.Printf("%s - Error: %v\n", fc.Path, fc.Err)
	}
}

func (p verifyPrinter) total(issues int) {
	fmt.Fprintln(p.out)
	if issues == 0 {
		p.ok.Printf("Found %d issue(s)\n", issues)
		return
	}
	p.issue.Printf("Found %d issue(s)\n", issues)
}
