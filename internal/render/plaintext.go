// internal/render/plaintext.go
package render

import (
	"regexp"
	"strings"
)

var (
	reScriptStyle   = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	reHTMLComment   = regexp.MustCompile(`(?i)<!--[\s\S]*?-->`)
	reListItem      = regexp.MustCompile(`(?i)<li[^>]*>`)
	reBlockBreak    = regexp.MustCompile(`(?i)<\s*(?:br|p|div|h[1-6]|tr)[^>]*/?\s*>`)
	reClosingBlock  = regexp.MustCompile(`(?i)</\s*(?:p|div|h[1-6]|tr|li|ul|ol|table)\s*>`)
	reAllTags       = regexp.MustCompile(`<[a-zA-Z/!?][^>]*>`)
	reMultiNewlines = regexp.MustCompile(`\n{3,}`)
	reMultiSpaces   = regexp.MustCompile(`[ \t]+`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&amp;", "&",
)

// HTMLToPlainText converts an HTML fragment to readable plain text. It is
// deterministic and idempotent: the output contains nothing a second pass
// would transform. Used for email plain-text fallbacks, WhatsApp message
// bodies and previews.
func HTMLToPlainText(htmlStr string) string {
	if htmlStr == "" {
		return ""
	}

	s := htmlStr

	// 1. Drop script/style blocks including their content, and comments.
	s = reScriptStyle.ReplaceAllString(s, "")
	s = reHTMLComment.ReplaceAllString(s, "")

	// 2. List items become bullets.
	s = reListItem.ReplaceAllString(s, "\n• ")

	// 3. Block-level tags become line breaks.
	s = reBlockBreak.ReplaceAllString(s, "\n")
	s = reClosingBlock.ReplaceAllString(s, "\n")

	// 4. Strip tags and decode entities until stable. Decoding can
	// materialize tag-like text (&lt;b&gt; becomes <b>) and entities can
	// nest (&amp;amp;), so a single strip-then-decode pass would leave
	// content for a later pass to transform. The tag pattern requires a
	// tag-start character after < so decoded prose like "5 < 6 > 4"
	// survives.
	for i := 0; i < 10; i++ {
		next := entityReplacer.Replace(reAllTags.ReplaceAllString(s, ""))
		if next == s {
			break
		}
		s = next
	}

	// 5. Collapse horizontal whitespace, trim each line.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(reMultiSpaces.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")

	// 6. At most one blank line in a row.
	s = reMultiNewlines.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
