/*
Package status writes stylecheck results to disk and tracks what changed.

	            +-------------+
	            |   Manager   |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (atomic)  |           | (status)|
	+-----------+           +---------+

🎯 Purpose:
- Writes cleaned documents, CSV exports and diffs atomically
- Optionally keeps a .bak copy of a document it overwrites
- Reports each output as new, modified or unchanged
- Tracks review progress

🔄 Flow:
1. The CLI hands rendered bytes to WriteDocument
2. The existing file is compared by SHA-256 checksum
3. Changed content is backed up (when asked) and written via temp file + rename
4. The result is tracked and logged through zerolog

🔍 Example:

	mgr := status.New(".", zerolog.Ctx(ctx))
	info, err := mgr.WriteDocument(ctx, "topic.cleaned.html", "cleaned", out, cfg.Output.Backup)
	if err != nil {
		return err
	}
	fmt.Println(info.Status)
*/
package status
