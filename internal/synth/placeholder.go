package synth

import (
	"regexp"
	"strings"

	"worker_server/internal/linkbuilder"
)

// placeholderPattern matches the LLM output placeholder syntax
// "[[id|link text]]" (spec.md §4.8).
var placeholderPattern = regexp.MustCompile(`\[\[([^|\]]+)\|([^\]]+)\]\]`)

// idResolver maps a placeholder id to (threadID, isThread, ok).
type idResolver func(id string) (target string, isThread bool, ok bool)

// replaceLinkPlaceholders implements _replace_link_placeholders: every
// "[[id|text]]" becomes an <a href> to the canonical mail-client link; an
// id the resolver cannot place renders as plain escaped text instead of a
// broken link.
func replaceLinkPlaceholders(text string, resolve idResolver) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		id, linkText := strings.TrimSpace(sub[1]), sub[2]

		target, isThread, ok := resolve(id)
		if !ok {
			return escapeHTML(linkText)
		}

		var href string
		if isThread {
			href = linkbuilder.ThreadLink(target)
		} else {
			href = linkbuilder.MessageLink(target)
		}
		return `<a href="` + href + `">` + escapeHTML(linkText) + `</a>`
	})
}

// dismissivePhrases are filler lines the editorial LLM sometimes emits
// when it has nothing substantive to add; they are stripped rather than
// rendered, mirroring _strip_dismissive_lines.
var dismissivePhrases = []string{
	"nothing much happening",
	"nothing noteworthy",
	"no action needed here",
	"as an ai",
}

// stripDismissiveLines drops lines that are empty or contain any of the
// boilerplate filler phrases.
func stripDismissiveLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		dismissive := false
		for _, phrase := range dismissivePhrases {
			if strings.Contains(lower, phrase) {
				dismissive = true
				break
			}
		}
		if dismissive {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
