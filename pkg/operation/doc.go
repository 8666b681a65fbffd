/*
Package operation runs the stylecheck pipeline on a single document.

	+-------------+
	|   Check     |  parse -> extract -> generate -> dedupe
	+------+------+
	       |
	   decisions (review / CSV)
	       |
	+------+------+
	|   Apply     |  parse -> extract -> apply accepted
	+------+------+
	       |
	+------+------+
	|    Diff     |  original vs cleaned
	+-------------+

🎯 Purpose:
- Wires the rule set, extractor and optional grammar advisor together
- Keeps each stage separately callable so decisions can be made between them

🔄 Flow:
1. Check parses the bytes and returns fragments plus deduplicated suggestions
2. Decisions are made outside (interactive review or an edited CSV)
3. Apply parses the same bytes again and writes the accepted pairs back
4. The outcome carries the diff between the original and the result

Apply never reuses a checked tree, so a Report can be discarded once its
suggestions are exported.

🔍 Example:

	op, err := operation.FromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := op.Check(ctx, src)
	if err != nil {
		return err
	}

	suggest.AcceptAll(report.Suggestions)
	out, err := op.Apply(ctx, src, report.Suggestions)
*/
package operation
