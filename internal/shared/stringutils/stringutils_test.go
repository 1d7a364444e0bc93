package stringutils

import "testing"

func TestStripThink(t *testing.T) {
	in := "<think>internal\nreasoning</think>2026-02-19T15:00"
	if got := StripThink(in); got != "2026-02-19T15:00" {
		t.Errorf("got %q", got)
	}
	if got := StripThink("no tags"); got != "no tags" {
		t.Errorf("got %q", got)
	}
}

func TestStripQuotes(t *testing.T) {
	cases := map[string]string{
		`"quoted"`:    "quoted",
		`'quoted'`:    "quoted",
		`"mismatch'`: `"mismatch'`,
		`plain`:      "plain",
		`""`:         "",
	}
	for in, want := range cases {
		if got := StripQuotes(in); got != want {
			t.Errorf("StripQuotes(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestTitleLabel(t *testing.T) {
	cases := map[string]string{
		"start_datetime":  "Start Datetime",
		"recipient-email": "Recipient Email",
		"summary":         "Summary",
		"":                "",
	}
	for in, want := range cases {
		if got := TitleLabel(in); got != want {
			t.Errorf("TitleLabel(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}
