// Package synth implements the synthesis & rendering stage (spec.md
// §4.8): deterministic HTML fallback, placeholder-based LLM editorial
// synthesis, noise narrative, and raw-digest passthrough — ported from
// synthesis_stage.py and llm_synthesis.py.
package synth

import (
	"html"
	"strings"

	"worker_server/internal/linkbuilder"
)

// digestCSS is ported 1:1 from the Python DIGEST_CSS constant (golden
// digest style): Charter serif body capped at 680px, muted footer.
const digestCSS = `
        body {
            font-family: "Charter", "Bitstream Charter", "Sitka Text", Cambria, serif;
            font-size: 16px;
            line-height: 1.15;
            color: #2c2c2c;
            max-width: 680px;
            margin: 0 auto;
            padding: 40px 20px;
            background-color: #ffffff;
        }
        .greeting {
            margin-bottom: 32px;
            color: #4a4a4a;
        }
        .section {
            margin-bottom: 28px;
        }
        .section-content {
            margin-bottom: 14px;
        }
        .item-number {
            display: inline;
        }
        a {
            color: #0066cc;
            text-decoration: underline;
            text-decoration-thickness: 1px;
            text-underline-offset: 2px;
        }
        a:hover {
            color: #0052a3;
        }
        .footer {
            margin-top: 48px;
            padding-top: 24px;
            border-top: 1px solid #e0e0e0;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            font-size: 13px;
            color: #999;
            text-align: center;
        }
        .label-counts {
            margin-bottom: 12px;
            font-size: 14px;
            color: #666;
        }
        .label-counts a {
            color: #666;
            text-decoration: none;
        }
        .label-counts a:hover {
            color: #333;
            text-decoration: underline;
        }
        .footer-brand {
            color: #999;
        }
        .footer-brand a {
            color: #999;
            text-decoration: none;
        }
        .footer-brand a:hover {
            color: #666;
            text-decoration: underline;
        }
`

// wrapDigestHTML wraps contentParts in the complete self-contained
// document: fixed CSS, no remote stylesheets, no script (spec.md §4.8
// Security).
func wrapDigestHTML(contentParts []string, typeCounts map[string]int) string {
	content := strings.Join(contentParts, "\n")

	typeCountsHTML := ""
	if len(typeCounts) > 0 {
		if line := linkbuilder.RenderTypeCountsLine(typeCounts); line != "" {
			typeCountsHTML = `<div class="label-counts">` + line + `</div>`
		}
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`    <meta charset="UTF-8">` + "\n")
	b.WriteString(`    <meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	b.WriteString("    <style>")
	b.WriteString(digestCSS)
	b.WriteString("\n    </style>\n</head>\n<body>\n")
	b.WriteString(content)
	b.WriteString("\n<div class=\"footer\">\n    ")
	b.WriteString(typeCountsHTML)
	b.WriteString("\n    <div class=\"footer-brand\">MailQ · <a href=\"#\">Settings</a></div>\n</div>\n</body>\n</html>")
	return b.String()
}

// escapeHTML HTML-escapes a user-controlled string before it is placed
// into a tag body or attribute (spec.md §4.8 Security, §8 invariant #6).
func escapeHTML(s string) string {
	return html.EscapeString(s)
}
