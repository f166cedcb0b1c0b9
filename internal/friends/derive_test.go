package friends

import (
	"strings"
	"testing"
	"time"
)

func TestHashString(t *testing.T) {
	seeds := []string{"", "a", "hello", "5f2b7c9e-1d3a-4f6b-8c0d-2e4f6a8b0c1d", "星河"}
	for _, seed := range seeds {
		first := hashString(seed)
		second := hashString(seed)
		if first != second {
			t.Errorf("hashString(%q) not deterministic: %d != %d", seed, first, second)
		}
		if first < 0 {
			t.Errorf("hashString(%q) = %d, want non-negative", seed, first)
		}
	}
}

func TestPickAccent(t *testing.T) {
	inPalette := func(theme AccentTheme) bool {
		for _, p := range accentPalette {
			if p == theme {
				return true
			}
		}
		return false
	}

	seeds := []string{"user-a", "user-b", "user-c", ""}
	for _, seed := range seeds {
		for i := 0; i < 7; i++ {
			theme := pickAccent(seed, i)
			if !inPalette(theme) {
				t.Errorf("pickAccent(%q, %d) returned a theme outside the palette", seed, i)
			}
			if again := pickAccent(seed, i); again != theme {
				t.Errorf("pickAccent(%q, %d) not deterministic", seed, i)
			}
		}
	}
}

func TestDefaultScore(t *testing.T) {
	seeds := []string{"a", "b", "c", "d", "e", "some-uuid-like-seed", ""}
	for _, seed := range seeds {
		score := defaultScore(seed)
		if score < 60 || score > 99 {
			t.Errorf("defaultScore(%q) = %d, want in [60, 99]", seed, score)
		}
		if again := defaultScore(seed); again != score {
			t.Errorf("defaultScore(%q) not deterministic", seed)
		}
	}
}

func TestDefaultOrbitLabel(t *testing.T) {
	label := defaultOrbitLabel("seed")
	if !strings.HasPrefix(label, "DAY ") {
		t.Errorf("defaultOrbitLabel = %q, want DAY prefix", label)
	}
	if again := defaultOrbitLabel("seed"); again != label {
		t.Errorf("defaultOrbitLabel not deterministic: %q != %q", label, again)
	}
}

func TestComputeActivityScore(t *testing.T) {
	tests := []struct {
		name string
		in   EngagementInput
		want int
	}{
		{"zero engagement is zero, not the default score", EngagementInput{}, 0},
		{"single activity day", EngagementInput{ActivityDays: 1}, 11}, // sqrt(5)*5 ≈ 11.18
		{"two posts three comments five likes four days", EngagementInput{Posts: 2, Comments: 3, Likes: 5, ActivityDays: 4}, 37},
		{"heavy engagement caps at 100", EngagementInput{Posts: 100, Comments: 100, Likes: 100, ActivityDays: 100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeActivityScore(tt.in); got != tt.want {
				t.Errorf("computeActivityScore(%+v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeActivityScoreMonotonic(t *testing.T) {
	base := EngagementInput{Posts: 1, Comments: 2, Likes: 3, ActivityDays: 4}
	baseScore := computeActivityScore(base)

	variants := []EngagementInput{
		{Posts: 2, Comments: 2, Likes: 3, ActivityDays: 4},
		{Posts: 1, Comments: 3, Likes: 3, ActivityDays: 4},
		{Posts: 1, Comments: 2, Likes: 4, ActivityDays: 4},
		{Posts: 1, Comments: 2, Likes: 3, ActivityDays: 5},
	}
	for _, v := range variants {
		score := computeActivityScore(v)
		if score < baseScore {
			t.Errorf("computeActivityScore(%+v) = %d dropped below base %d", v, score, baseScore)
		}
		if score > 100 {
			t.Errorf("computeActivityScore(%+v) = %d exceeds 100", v, score)
		}
	}
}

func TestComputeCompanionshipDays(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		want      int
	}{
		{"created today counts as day one", time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC), 1},
		{"created ten days ago", time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC), 11},
		{"zero timestamp", time.Time{}, 0},
		{"same instant", now, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeCompanionshipDays(tt.createdAt, now); got != tt.want {
				t.Errorf("computeCompanionshipDays(%v) = %d, want %d", tt.createdAt, got, tt.want)
			}
		})
	}
}

func TestNormalizeActivityDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"date only", "2024-05-01", "2024-05-01"},
		{"utc timestamp", "2024-05-01T18:30:00Z", "2024-05-01"},
		{"offset timestamp crosses midnight", "2024-05-01T23:30:00-05:00", "2024-05-02"},
		{"unparseable falls back to slice", "2024-05-01 18:30:00", "2024-05-01"},
		{"short garbage passes through", "oops", "oops"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeActivityDate(tt.input); got != tt.want {
				t.Errorf("normalizeActivityDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
