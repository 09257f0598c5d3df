// Package linkbuilder ports gmail_link_builder.py's URL shapes bit-exact
// (spec.md §4.8, §6): thread/message/search links use query-style percent
// encoding (space -> "+"), label links use path-style percent encoding
// (space -> "%20", "/" -> "%2F").
package linkbuilder

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const baseURL = "https://mail.google.com/mail/u/0/"

// ThreadLink returns the canonical deep link for a Gmail thread id.
func ThreadLink(threadID string) string {
	return baseURL + "#inbox/" + url.QueryEscape(threadID)
}

// MessageLink returns the canonical deep link for a single message id.
// Gmail resolves inbox/<id> for both thread and message ids, so the shape
// is identical to ThreadLink (spec.md §6).
func MessageLink(messageID string) string {
	return baseURL + "#inbox/" + url.QueryEscape(messageID)
}

// SearchLink returns a Gmail search deep link for an arbitrary query.
func SearchLink(query string) string {
	return baseURL + "#search/" + url.QueryEscape(query)
}

// CategorySearchLink builds a search link scoped to a coarse type, e.g.
// "category:newsletter".
func CategorySearchLink(emailType string) string {
	return SearchLink("category:" + emailType)
}

// ClientLabelLink returns a Gmail label deep link. url.PathEscape encodes
// space as %20 and "/" as %2F, matching the Python builder's
// quote(label, safe="") call bit-exact; url.QueryEscape would encode a
// space as "+" instead and diverge for multi-word labels.
func ClientLabelLink(label string) string {
	return baseURL + "#label/" + url.PathEscape(label)
}

// typeCount pairs a coarse type with its occurrence count for footer
// rendering.
type typeCount struct {
	Type  string
	Count int
}

// RenderTypeCountsLine implements render_type_counts_line: "N <type>s · …"
// sorted by count desc, each segment linked to its category search.
func RenderTypeCountsLine(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	pairs := make([]typeCount, 0, len(counts))
	for t, c := range counts {
		pairs = append(pairs, typeCount{Type: t, Count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Type < pairs[j].Type
	})

	segments := make([]string, 0, len(pairs))
	for _, p := range pairs {
		segments = append(segments, fmt.Sprintf(`<a href="%s">%d %s</a>`, CategorySearchLink(p.Type), p.Count, pluralize(p.Type, p.Count)))
	}
	return strings.Join(segments, " · ")
}

// RenderLabelSummaryProse implements render_label_summary_prose: "The rest
// is 8 receipts and 3 messages."
func RenderLabelSummaryProse(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	pairs := make([]typeCount, 0, len(counts))
	for t, c := range counts {
		pairs = append(pairs, typeCount{Type: t, Count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Type < pairs[j].Type
	})

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%d %s", p.Count, pluralize(p.Type, p.Count)))
	}

	switch len(parts) {
	case 1:
		return "The rest is " + parts[0] + "."
	default:
		return "The rest is " + strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1] + "."
	}
}

func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "ch") || strings.HasSuffix(word, "sh") {
		return word + "es"
	}
	return word + "s"
}

// ExplorationLinks bundles the supplementary footer search links ported
// from gmail_link_builder.py's build_exploration_links.
type ExplorationLinks struct {
	UnfeaturedItemsLink string
	EarlierThreadsLink  string
	ActionRequiredLink  string
}

// BuildExplorationLinks returns the supplementary search links. Neither the
// renderer nor the HTTP handler calls it, so these links appear in no digest
// and no response.
func BuildExplorationLinks() ExplorationLinks {
	return ExplorationLinks{
		UnfeaturedItemsLink: SearchLink("in:inbox -is:starred"),
		EarlierThreadsLink:  SearchLink("older_than:1d"),
		ActionRequiredLink:  SearchLink("label:action-required"),
	}
}
