/*
Package operation implements the path-reconciliation engine of arboribus.

	+--------------+
	|  Reconciler  |
	| (Core Logic) |
	+------+-------+
	       |
	+------+-------+
	|    Runner    |
	| (Batch Loop) |
	+--------------+

🎯 Purpose:
- Decides, per resolved source path, whether to copy, skip, replace or
  report an error against its computed target path
- Performs the filesystem mutation (or simulates it in dry-run)
- Drives the per-file batch loop and tallies aggregate counts

🔄 Flow:
1. Receives (source, target) pairs from the resolver
2. Filters against the git tracked set
3. Compares content identity via checksums
4. Copies file contents and metadata, or whole trees for directories

⚡ Key Responsibilities:
- The file-branch state machine (same/exists/replace/dry-run)
- The directory-branch state machine (rmtree + tree copy with an
  explicit untracked-file exclude predicate)
- Converting per-path failures into outcomes instead of aborting the
  batch

📝 Design Philosophy:
Every path is reconciled independently. Expected skips (filtered out,
already identical, exists without replace) are outcomes, not errors.
Recoverable failures (mkdir, copy, removal) are tagged outcomes the
caller can count; nothing here ever stops the run for one bad path.

🔍 Example:

	rec := &operation.Reconciler{Root: root, Tracked: tracked}
	outcome := rec.Reconcile(ctx, src, dst)
*/
package operation
