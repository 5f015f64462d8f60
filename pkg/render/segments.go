// Package render prints model responses and session notices to a terminal.
package render

import "strings"

// Kind distinguishes narrative text from fenced code.
type Kind int

const (
	Prose Kind = iota
	Code
)

// Segment is a run of lines of a single kind.
type Segment struct {
	Kind Kind
	Lang string
	Text string
}

// Split cuts text on ``` fence lines. Fence lines themselves are dropped; the
// info string of an opening fence becomes Lang. An unterminated fence runs to
// the end of the text. Blank prose segments are omitted.
func Split(text string) []Segment {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		out     []Segment
		current []string
		inCode  bool
		lang    string
	)
	flush := func() {
		body := strings.Join(current, "\n")
		current = current[:0]
		if inCode {
			out = append(out, Segment{Kind: Code, Lang: lang, Text: body})
			return
		}
		body = strings.Trim(body, "\n")
		if strings.TrimSpace(body) == "" {
			return
		}
		out = append(out, Segment{Kind: Prose, Text: body})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			flush()
			if inCode {
				inCode = false
				lang = ""
			} else {
				inCode = true
				lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		current = append(current, line)
	}
	flush()
	return out
}
