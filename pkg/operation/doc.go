/*
Package operation implements the batch passes that migrate legacy client calls.

	+-------------+      +-------------+      +-------------+
	|   Enumerate | ---> |   Rewrite   | ---> |   Verify    |
	| (doublestar)|      |  (migrate)  |      |   (count)   |
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |   Status    |
	                     | (write/log) |
	                     +-------------+

🎯 Passes:
  - Rewrite: recursive walk below a root, marker pre-filter, call and import
    rewrite, in-place overwrite, then a verification pass counting what is left
  - RewriteFlat: one directory, no pre-filter, fixed import path
  - Verify: checks that files calling the helpers also import them

🔄 Flow of Rewrite:
 1. Stat the root; a missing root aborts before any file is read
 2. Enumerate files by extension, dropping ignored globs
 3. For each file holding the marker: read, rewrite, write back if changed
 4. Print the summary line
 5. Enumerate again and count remaining legacy calls per file

⚡ Failure model:
  - A file that cannot be read or written is logged, counted as failed and skipped
  - Calls the rules cannot match (multi-line, nested braces) are left alone and
    show up in the verification count

🤝 Collaborators:
  - migrate.Migration: the rule set
  - status.FileManager: reads and in-place writes
  - log.Logger: console lines, taken from the context

🔍 Example:

	m, _ := migrate.New(migrate.DefaultCallSpec(), migrate.DefaultImportSpec(), "src")
	summary, err := operation.Rewrite(ctx, operation.Options{
		Root:       "src/components",
		Extensions: []string{".jsx", ".js"},
		Migration:  m,
	})
*/
package operation
