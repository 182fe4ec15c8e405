package voting

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestCheckBoundaries(t *testing.T) {
	now := mustTime(t, "2026-02-01T00:00:00")
	w := Resolve("2026-03-02", "2026-03-07", now)

	tests := []struct {
		name string
		at   string
		want error
	}{
		{"second before start", "2026-03-01T23:59:59", ErrNotStarted},
		{"start of window", "2026-03-02T00:00:00", nil},
		{"mid window", "2026-03-05T12:30:00", nil},
		{"last second of end day", "2026-03-07T23:59:59", nil},
		{"midnight after end day", "2026-03-08T00:00:00", ErrEnded},
		{"well after", "2026-04-01T00:00:00", ErrEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Check(mustTime(t, tt.at))
			if got != tt.want {
				t.Errorf("Check(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestResolveFallback(t *testing.T) {
	now := mustTime(t, "2026-01-15T10:00:00")

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"both empty", "", ""},
		{"malformed start", "03/02/2026", "2026-03-07"},
		{"malformed end", "2026-03-02", "soon"},
		{"garbage", "not-a-date", "also-not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Resolve(tt.start, tt.end, now)
			wantStart := time.Date(2026, time.March, 2, 0, 0, 0, 0, now.Location())
			wantEnd := time.Date(2026, time.March, 7, 0, 0, 0, 0, now.Location())
			if !w.Start.Equal(wantStart) || !w.End.Equal(wantEnd) {
				t.Errorf("Resolve(%q, %q) = %v..%v, want default %v..%v",
					tt.start, tt.end, w.Start, w.End, wantStart, wantEnd)
			}
		})
	}
}

func TestDefaultWindowEndExclusive(t *testing.T) {
	now := mustTime(t, "2026-03-05T00:00:00")
	w := Resolve("", "", now)
	want := time.Date(2026, time.March, 8, 0, 0, 0, 0, now.Location())
	if !w.EndExclusive().Equal(want) {
		t.Errorf("EndExclusive() = %v, want %v", w.EndExclusive(), want)
	}
	if !w.Open(mustTime(t, "2026-03-07T23:59:59")) {
		t.Error("expected window open at last second of end day")
	}
	if w.Open(want) {
		t.Error("expected window closed at end-exclusive midnight")
	}
}

func TestResolveUsesConfiguredDates(t *testing.T) {
	now := mustTime(t, "2026-06-01T00:00:00")
	w := Resolve("2026-06-10", "2026-06-20", now)
	if err := w.Check(now); err != ErrNotStarted {
		t.Errorf("Check before configured start = %v, want ErrNotStarted", err)
	}
	if err := w.Check(mustTime(t, "2026-06-15T08:00:00")); err != nil {
		t.Errorf("Check inside configured window = %v, want nil", err)
	}
}
