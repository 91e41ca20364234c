// Copyright © 2026 The Bit Authors under an MIT-style license.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestList(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"app/app.bit":       "use lib/fmt;\nuse lib/num;",
		"lib/fmt/fmt.bit":   "use lib/num;",
		"lib/num/num.bit":   "",
		"lib/num/extra.bit": "",
		"tool/tool.bit":     "",
		"notes/README":      "",
	}
	for path, body := range files {
		path = filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			t.Fatalf("failed to make directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	got, err := list(root)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"lib/num", "lib/fmt", "app", "tool"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("list: (-want,+got)\n%s", diff)
	}
}

func TestListMissingDep(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app", "app.bit")
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		t.Fatalf("failed to make directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("use nowhere;"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	if _, err := list(root); err == nil {
		t.Errorf("list succeeded, wanted an error")
	}
}

func TestListCycle(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"main.bit":    "use a;",
		"a/a.bit":     "use b;",
		"b/b.bit":     "use a;",
		"c/c.bit":     "",
		"notes/notes": "",
	}
	for path, body := range files {
		path = filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			t.Fatalf("failed to make directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	_, err := list(root)
	if err == nil || !strings.Contains(err.Error(), "use cycle: a -> b -> a") {
		t.Errorf("list()=%v, wanted a use cycle error", err)
	}
}
