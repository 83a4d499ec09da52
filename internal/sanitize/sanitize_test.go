package sanitize

import (
	"strings"
	"testing"
)

func TestAnswer_RendersMarkdown(t *testing.T) {
	got := Answer("**Chefchaouen** is known as:\n- The Blue Pearl\n- A Rif Mountains town")

	if !strings.Contains(got, "<strong>Chefchaouen</strong>") {
		t.Errorf("bold markdown was not rendered: %q", got)
	}
	if !strings.Contains(got, "<li>The Blue Pearl</li>") {
		t.Errorf("list markdown was not rendered: %q", got)
	}
	if strings.Contains(got, "**") || strings.Contains(got, "\n- ") {
		t.Errorf("raw markdown syntax leaked through: %q", got)
	}
}

func TestAnswer_StripsDangerousMarkup(t *testing.T) {
	got := Answer(`<script>alert(1)</script>Visit the <strong>medina</strong> [here](javascript:alert(2))`)

	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived: %q", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript URL survived: %q", got)
	}
	if !strings.Contains(got, "<strong>medina</strong>") {
		t.Errorf("allowed inline formatting was stripped: %q", got)
	}
}

func TestAnswer_PlainTextPassesThrough(t *testing.T) {
	got := Answer("The souks open early in the morning.")

	if !strings.Contains(got, "The souks open early in the morning.") {
		t.Errorf("plain prose was mangled: %q", got)
	}
}

func TestAnswer_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n"} {
		if got := Answer(input); got != "" {
			t.Errorf("Answer(%q) = %q, expected empty", input, got)
		}
	}
}
