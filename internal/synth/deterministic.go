package synth

import (
	"fmt"
	"strconv"
	"strings"

	"worker_server/internal/digest/domain"
	"worker_server/internal/linkbuilder"
)

// renderDeterministic implements _render_deterministic: greeting, then
// three combined sections (critical+today merged as "Today/Urgent", then
// coming_up, then worth_knowing), each a numbered list continuing a
// single global counter, then a noise rollup line.
func renderDeterministic(dc *domain.Context) []string {
	var parts []string

	if dc.Greeting != "" {
		parts = append(parts, `<div class="greeting">`+escapeHTML(dc.Greeting)+`</div>`)
	}

	byRank := make(map[domain.Section][]domain.FeaturedItem)
	for _, item := range dc.FeaturedItems {
		byRank[item.Section] = append(byRank[item.Section], item)
	}

	combined := []struct {
		sections []domain.Section
		header   string
	}{
		{[]domain.Section{domain.SectionCritical, domain.SectionToday}, "Today/Urgent"},
		{[]domain.Section{domain.SectionComingUp}, "Coming Up"},
		{[]domain.Section{domain.SectionWorthKnowing}, "Worth Knowing"},
	}

	itemNumber := 1
	for _, group := range combined {
		var items []domain.FeaturedItem
		for _, sec := range group.sections {
			items = append(items, byRank[sec]...)
		}
		if len(items) == 0 {
			continue
		}

		parts = append(parts, `<div class="section">`)
		parts = append(parts, fmt.Sprintf(`<p class="section-content">%s</p>`, escapeHTML(group.header)))
		for _, item := range items {
			parts = append(parts, renderItem(item, itemNumber))
			itemNumber++
		}
		parts = append(parts, "</div>")
	}

	if len(dc.NoiseSummary) > 0 {
		parts = append(parts, "<br>")
		parts = append(parts, `<div class="section">`)
		noiseLine := renderNoiseLine(dc.NoiseSummary)
		parts = append(parts, fmt.Sprintf(`<div class="section-content">%s</div>`, noiseLine))
		parts = append(parts, "</div>")
	}

	if len(dc.FeaturedItems) == 0 && len(dc.NoiseSummary) == 0 {
		parts = append(parts, `<div class="section"><p class="section-content">Your inbox is clear.</p></div>`)
	}

	return parts
}

func renderNoiseLine(noise map[string]int) string {
	keys := make([]string, 0, len(noise))
	for k := range noise {
		keys = append(keys, k)
	}
	// Stable, deterministic order (spec.md §8 invariant #5 requires
	// byte-identical output across runs given identical input).
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strconv.Itoa(noise[k])+" "+escapeHTML(k))
	}
	return "You also have: " + strings.Join(parts, ", ") + "."
}

func renderItem(item domain.FeaturedItem, number int) string {
	title := escapeHTML(item.DisplayTitle())
	if title == "" {
		title = "Untitled"
	}

	var link string
	if id, isThread := item.ThreadID(); id != "" {
		if isThread {
			link = linkbuilder.ThreadLink(id)
		} else {
			link = linkbuilder.MessageLink(id)
		}
	} else {
		link = "#"
	}

	return fmt.Sprintf(
		`<div class="section-content"><span class="item-number">(%d)</span> <a href="%s">%s</a></div>`,
		number, link, title,
	)
}
