package report

import (
	"strings"
	"testing"
	"time"
)

func TestFilenameStableAcrossGenerations(t *testing.T) {
	at := time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC)
	a := Filename("Acme Corp.", "Board Review", at, time.Date(2026, 2, 20, 9, 30, 15, 0, time.UTC), time.UTC)
	b := Filename("Acme Corp.", "Board Review", at, time.Date(2026, 3, 1, 18, 5, 1, 0, time.UTC), time.UTC)
	if a != "mom_acme_corp_board_review_20260219_20260220_093015.pdf" {
		t.Fatalf("a = %s", a)
	}
	pa := strings.Split(strings.TrimSuffix(a, ".pdf"), "_")
	pb := strings.Split(strings.TrimSuffix(b, ".pdf"), "_")
	if len(pa) != len(pb) {
		t.Fatalf("片段数不同: %s / %s", a, b)
	}
	// 只有最后的时间戳（日期与时分秒两段）不同
	for i := 0; i < len(pa)-2; i++ {
		if pa[i] != pb[i] {
			t.Fatalf("片段 %d 不同: %s / %s", i, a, b)
		}
	}
}

func TestFilenameUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	at := time.Date(2026, 2, 19, 20, 0, 0, 0, time.UTC)
	got := Filename("Acme", "Sync", at, at, loc)
	if got != "mom_acme_sync_20260220_20260220_040000.pdf" {
		t.Fatalf("got %s", got)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Board Review", 60, "board_review"},
		{"  Café / Ünïcode!! ", 60, "cafe_unicode"},
		{"---", 60, "na"},
		{"", 60, "na"},
		{"会议", 60, "na"},
		{"a b c d", 3, "a_b"},
		{strings.Repeat("x", 80), 60, strings.Repeat("x", 60)},
	}
	for _, tc := range cases {
		if got := Slug(tc.in, tc.max); got != tc.want {
			t.Fatalf("Slug(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
