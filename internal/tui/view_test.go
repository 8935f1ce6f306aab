package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncateKeepsRunesIntact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
	}{
		{"ascii overflow", "a long board item title", 10},
		{"cjk overflow", "日本語のタイトルが長い", 8},
		{"accented overflow", "résumé notes from the café session", 12},
		{"cut inside wide rune", "日本語テスト", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if !utf8.ValidString(got) {
				t.Fatalf("truncate(%q, %d) = %q, invalid UTF-8", tt.in, tt.n, got)
			}
			if w := ansi.StringWidth(got); w > tt.n {
				t.Errorf("truncate(%q, %d) renders %d cells wide", tt.in, tt.n, w)
			}
			if !strings.HasSuffix(got, "...") {
				t.Errorf("truncate(%q, %d) = %q, want ellipsis suffix", tt.in, tt.n, got)
			}
		})
	}
}

func TestTruncateShortStringUnchanged(t *testing.T) {
	if got := truncate("ok", 10); got != "ok" {
		t.Errorf("truncate(ok, 10) = %q", got)
	}
	if got := truncate("日本", 10); got != "日本" {
		t.Errorf("truncate(日本, 10) = %q", got)
	}
}
