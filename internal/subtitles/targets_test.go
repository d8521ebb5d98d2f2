package subtitles

import (
	"errors"
	"path/filepath"
	"testing"

	"subfetch/internal/services"
)

func TestTargetPathScenario(t *testing.T) {
	got, err := TargetPath("/movies/Foo.Bar.2020.mkv", 0, SubInfo{SURL: "https://x.test/a/b.srt", Language: "en"})
	if err != nil {
		t.Fatalf("TargetPath: %v", err)
	}
	if want := "/movies/Foo.Bar.2020_0_en.srt"; got != want {
		t.Fatalf("TargetPath = %q, want %q", got, want)
	}
}

func TestTargetPathExtensions(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"query ignored", "https://x.test/subs/movie.en.vtt?sig=1", "/v/Movie_2_zh.vtt"},
		{"fragment ignored", "https://x.test/subs/movie.ass#frag.txt", "/v/Movie_2_zh.ass"},
		{"no extension", "https://x.test/subs/movie", "/v/Movie_2_zh.srt"},
		{"dot in directory only", "https://x.test/sub.dir/movie", "/v/Movie_2_zh.srt"},
		{"hidden segment", "https://x.test/subs/.srt", "/v/Movie_2_zh.srt"},
		{"trailing dot keeps empty extension", "https://x.test/subs/movie.", "/v/Movie_2_zh."},
		{"encoded dot is not a separator", "https://x.test/a/movie%2Evtt", "/v/Movie_2_zh.srt"},
		{"encoded extension kept escaped", "https://x.test/a/b.s%72t", "/v/Movie_2_zh.s%72t"},
		{"root path", "https://x.test", "/v/Movie_2_zh.srt"},
		{"trailing slash", "https://x.test/subs/a.sub/", "/v/Movie_2_zh.sub"},
		{"ssa", "http://sub.test/gcid/ABC.ssa", "/v/Movie_2_zh.ssa"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TargetPath("/v/Movie.mkv", 2, SubInfo{SURL: tc.url, Language: "zh"})
			if err != nil {
				t.Fatalf("TargetPath: %v", err)
			}
			if got != filepath.FromSlash(tc.want) {
				t.Fatalf("TargetPath = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTargetPathSegmentsVaryIndependently(t *testing.T) {
	base := SubInfo{SURL: "https://x.test/a/b.srt", Language: "en"}
	first, _ := TargetPath("/m/Film.mkv", 0, base)
	again, _ := TargetPath("/m/Film.mkv", 0, base)
	if first != again {
		t.Fatalf("expected pure function, got %q and %q", first, again)
	}
	byIndex, _ := TargetPath("/m/Film.mkv", 7, base)
	if byIndex != "/m/Film_7_en.srt" {
		t.Fatalf("unexpected index variant %q", byIndex)
	}
	lang := base
	lang.Language = "简体&英语"
	byLang, _ := TargetPath("/m/Film.mkv", 0, lang)
	if byLang != "/m/Film_0_简体&英语.srt" {
		t.Fatalf("unexpected language variant %q", byLang)
	}
}

func TestTargetPathStemRules(t *testing.T) {
	tests := map[string]string{
		"/m/archive.tar.gz": "/m/archive.tar_1_en.srt",
		"/m/noext":          "/m/noext_1_en.srt",
		"/m/.hidden":        "/m/.hidden_1_en.srt",
	}
	for video, want := range tests {
		got, err := TargetPath(video, 1, SubInfo{SURL: "https://x.test/s", Language: "en"})
		if err != nil {
			t.Fatalf("TargetPath(%q): %v", video, err)
		}
		if got != want {
			t.Fatalf("TargetPath(%q) = %q, want %q", video, got, want)
		}
	}
}

func TestTargetPathInvalidURL(t *testing.T) {
	for _, raw := range []string{"://broken", "relative/path.srt", "http://[::1"} {
		_, err := TargetPath("/m/Film.mkv", 0, SubInfo{SURL: raw, Language: "en"})
		if !errors.Is(err, services.ErrURLParse) {
			t.Fatalf("TargetPath(%q) expected url parse error, got %v", raw, err)
		}
	}
}

func TestTargetPathInvariantViolation(t *testing.T) {
	for _, video := range []string{"/", ""} {
		_, err := TargetPath(video, 0, SubInfo{SURL: "https://x.test/a.srt", Language: "en"})
		if !errors.Is(err, services.ErrInvariant) {
			t.Fatalf("TargetPath(%q) expected invariant violation, got %v", video, err)
		}
	}
}
