package synth

import (
	"strings"
	"testing"
)

func TestReplaceLinkPlaceholdersResolvesKnownID(t *testing.T) {
	got := replaceLinkPlaceholders("See [[42|this email]] for details.", func(id string) (string, bool, bool) {
		if id == "42" {
			return "thread-42", true, true
		}
		return "", false, false
	})
	if !strings.Contains(got, `<a href=`) {
		t.Errorf("expected an anchor tag in %q", got)
	}
	if !strings.Contains(got, "this email") {
		t.Errorf("expected link text preserved in %q", got)
	}
}

func TestReplaceLinkPlaceholdersFallsBackToPlainTextWhenUnresolved(t *testing.T) {
	got := replaceLinkPlaceholders("See [[99|missing]] for details.", func(id string) (string, bool, bool) {
		return "", false, false
	})
	if strings.Contains(got, "<a href=") {
		t.Errorf("did not expect an anchor for an unresolved id: %q", got)
	}
	if !strings.Contains(got, "missing") {
		t.Errorf("expected plain text fallback to retain link text: %q", got)
	}
}

func TestReplaceLinkPlaceholdersEscapesText(t *testing.T) {
	got := replaceLinkPlaceholders("[[1|<script>alert(1)</script>]]", func(id string) (string, bool, bool) {
		return "", false, false
	})
	if strings.Contains(got, "<script>") {
		t.Errorf("expected link text to be HTML-escaped: %q", got)
	}
}

func TestStripDismissiveLinesRemovesFillerAndBlankLines(t *testing.T) {
	input := "Real update here.\n\nNothing much happening today.\nAnother real line."
	got := stripDismissiveLines(input)
	if strings.Contains(got, "Nothing much happening") {
		t.Errorf("expected dismissive line to be stripped: %q", got)
	}
	if !strings.Contains(got, "Real update here.") || !strings.Contains(got, "Another real line.") {
		t.Errorf("expected real content lines preserved: %q", got)
	}
}
