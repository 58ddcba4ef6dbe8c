package blog

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sanitizePolicy is the allow-list applied to post content on read. The UGC
// base covers the rich-text editor's output; tables are added because legacy
// posts carry pricing tables.
var sanitizePolicy = newSanitizePolicy()

func newSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("href", "name", "target", "rel").OnElements("a")
	p.AllowAttrs("colspan", "rowspan", "style", "class").Globally()
	return p
}

// SanitizeContent normalizes malformed table fragments and strips unsafe
// markup. Pasted legacy content sometimes contains td/tr elements outside any
// table; the HTML5 parser would silently drop those, losing the cell text
// structure, so normalization runs on the token stream first.
func SanitizeContent(raw string) string {
	return sanitizePolicy.Sanitize(normalizeTables(raw))
}

// normalizeTables wraps orphan td/th cells into rows and orphan rows into
// table/tbody structures, leaving everything else untouched.
func normalizeTables(raw string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	var out strings.Builder
	tableDepth := 0 // open <table> elements from the source
	rowDepth := 0   // open <tr> elements from the source
	cellDepth := 0  // open td/th elements
	syntheticTable := false
	syntheticRow := false

	closeSyntheticRow := func() {
		if syntheticRow {
			out.WriteString("</tr>")
			syntheticRow = false
		}
	}
	closeSyntheticTable := func() {
		closeSyntheticRow()
		if syntheticTable {
			out.WriteString("</tbody></table>")
			syntheticTable = false
		}
	}

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			closeSyntheticTable()
			return out.String()
		}

		token := tokenizer.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			switch token.DataAtom {
			case atom.Table:
				closeSyntheticTable()
				tableDepth++
			case atom.Tr:
				if tableDepth == 0 && !syntheticTable {
					out.WriteString("<table><tbody>")
					syntheticTable = true
				}
				closeSyntheticRow()
				rowDepth++
			case atom.Td, atom.Th:
				if tableDepth == 0 && rowDepth == 0 && !syntheticRow {
					if !syntheticTable {
						out.WriteString("<table><tbody>")
						syntheticTable = true
					}
					out.WriteString("<tr>")
					syntheticRow = true
				}
				cellDepth++
			case atom.Thead, atom.Tbody, atom.Tfoot, atom.Caption:
				// Section tags belong to a real table; leave them alone.
			default:
				if cellDepth == 0 {
					closeSyntheticTable()
				}
			}
		case html.EndTagToken:
			switch token.DataAtom {
			case atom.Table:
				if tableDepth > 0 {
					tableDepth--
				}
			case atom.Td, atom.Th:
				if cellDepth > 0 {
					cellDepth--
				}
			case atom.Tr:
				if rowDepth > 0 {
					rowDepth--
				} else {
					// A stray end tag closes the synthesized row itself.
					syntheticRow = false
				}
			}
		case html.TextToken:
			// Bare text between synthesized rows ends the table; whitespace
			// and cell content do not.
			if cellDepth == 0 && strings.TrimSpace(token.Data) != "" {
				closeSyntheticTable()
			}
		}

		out.WriteString(token.String())
	}
}
