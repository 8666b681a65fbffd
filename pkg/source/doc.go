/*
Package source fetches markup documents for stylecheck.

	            +-------------+
	            |   Source    |
	            | (Documents) |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   Local   | |  HTTP   | |  GitHub   |
	|   Files   | | (https) | | (go-github)|
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Turns a document reference into raw bytes
- Keeps scheme handling behind one registry

🔄 Flow:
1. Parse reads the reference into a Location
2. The factory registered for the scheme builds a Source
3. Fetch returns the document bytes

The github source lives in its own package and registers itself from init,
so binaries that want it import it for side effects:

	import _ "github.com/walteh/stylecheck/pkg/source/github"

🔍 Example:

	data, loc, err := source.Read(ctx, "github:acme/docs@main:topics/intro.html")
	if err != nil {
		return err
	}
	doc, err := markup.Parse(ctx, bytes.NewReader(data))
*/
package source
