package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files under testdata/")

// GoldenString compares got against testdata/<name>.golden and reports the
// first differing line. Run tests with -update (or GOLDEN_UPDATE=1) to
// rewrite the file instead.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if *update || os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v\ngot:\n%s", path, err, got)
	}
	want := string(data)
	if got == want {
		return
	}

	gotLines := strings.Split(got, "\n")
	wantLines := strings.Split(want, "\n")
	for i := 0; i < len(gotLines) || i < len(wantLines); i++ {
		var g, w string
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if g != w {
			t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q", path, i+1, w, g)
			return
		}
	}
	t.Errorf("%s: output differs", path)
}
