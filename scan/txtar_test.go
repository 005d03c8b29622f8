package scan

import (
	"io/fs"
	"path"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/tools/txtar"
)

// testTypes lists the non-empty lines of tests.txt, or nil when the archive has none.
func testTypes(archive *txtar.Archive) []string {
	for _, f := range archive.Files {
		if f.Name != "tests.txt" {
			continue
		}
		var types []string
		for _, line := range strings.Split(string(f.Data), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				types = append(types, trimmed)
			}
		}
		return types
	}
	return nil
}

func archiveFile(archive *txtar.Archive, name string) (string, bool) {
	for _, f := range archive.Files {
		if f.Name == name {
			return string(f.Data), true
		}
	}
	return "", false
}

// archiveFS exposes the archive as a file system rooted at ".".
func archiveFS(archive *txtar.Archive) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, f := range archive.Files {
		fsys[f.Name] = &fstest.MapFile{Data: f.Data}
	}
	return fsys
}

// runTxtarTests runs every .txtar file in dir against the handlers named in its tests.txt.
func runTxtarTests(t *testing.T, fsys fs.FS, dir string, handlers map[string]func(*testing.T, *txtar.Archive)) {
	t.Helper()
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		t.Fatalf("failed to read directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".txtar") {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			p := path.Join(dir, entry.Name())
			content, err := fs.ReadFile(fsys, p)
			if err != nil {
				t.Fatalf("failed to read %s: %v", p, err)
			}

			archive := txtar.Parse(content)
			types := testTypes(archive)
			if len(types) == 0 {
				t.Fatalf("%s has no tests.txt", entry.Name())
			}
			for _, typ := range types {
				handler, ok := handlers[typ]
				if !ok {
					t.Errorf("Unknown test type: %s", typ)
					continue
				}
				t.Run(typ, func(t *testing.T) {
					handler(t, archive)
				})
			}
		})
	}
}
