package tree

import "testing"

func TestPathFilterMatch(t *testing.T) {
	filter := newPathFilter([]string{
		"**/private/**",
		"*.pem",
		"fixtures/",
		"  ",
		"./docs/*.tmp",
	})

	cases := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"src/private/token.txt", false, true},
		{"private", true, true},
		{"tls/server.pem", false, true},
		{"server.pem", false, true},
		{"fixtures", true, true},
		{"fixtures/data/sample.json", false, true},
		{"nested/fixtures", true, false},
		{"fixtures", false, false},
		{"fixtures/readme.md", false, true},
		{"docs/a.tmp", false, true},
		{"docs/sub/a.tmp", false, false},
		{"src/public/readme.md", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		if got := filter.match(tc.path, tc.isDir); got != tc.want {
			t.Errorf("match(%q, dir=%v)=%v, want %v", tc.path, tc.isDir, got, tc.want)
		}
	}
}

func TestPathFilterEmpty(t *testing.T) {
	if !newPathFilter(nil).empty() {
		t.Fatal("expected nil globs to give an empty filter")
	}
	if !newPathFilter([]string{"", " "}).empty() {
		t.Fatal("expected blank globs to be dropped")
	}
}

func TestSplitLinesKeepEnds(t *testing.T) {
	cases := map[string][]string{
		"":              nil,
		"a":             {"a"},
		"a\n":           {"a\n"},
		"a\r\nb":        {"a\r\n", "b"},
		"\n\n":          {"\n", "\n"},
		"x\ny\nz\n":     {"x\n", "y\n", "z\n"},
		"no\rsplit\r\n": {"no\rsplit\r\n"},
	}
	for in, want := range cases {
		got := splitLinesKeepEnds(in)
		if len(got) != len(want) {
			t.Errorf("splitLinesKeepEnds(%q)=%q, want %q", in, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("splitLinesKeepEnds(%q)[%d]=%q, want %q", in, i, got[i], want[i])
			}
		}
	}
}
