package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectPaths(t *testing.T) {
	root := t.TempDir()
	writeStub(t, filepath.Join(root, "string.rb"), "class String\nend\n")
	writeStub(t, filepath.Join(root, "core", "kernel.rb"), "module Kernel\nend\n")
	writeStub(t, filepath.Join(root, "notes.txt"), "not a stub\n")
	writeStub(t, filepath.Join(root, ".stubdex", "cache.rb"), "class Hidden\nend\n")

	paths, err := CollectPaths([]string{root}, []string{".rb"})
	if err != nil {
		t.Fatalf("CollectPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths (%v), want 2", len(paths), paths)
	}
	// Sorted by path.
	if filepath.Base(paths[0]) != "kernel.rb" || filepath.Base(paths[1]) != "string.rb" {
		t.Errorf("paths = %v", paths)
	}
}

func TestCollectPathsAcceptsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "env.rb")
	writeStub(t, file, "module ENV\nend\n")

	paths, err := CollectPaths([]string{file}, []string{".rb"})
	if err != nil {
		t.Fatalf("CollectPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != file {
		t.Errorf("paths = %v, want [%s]", paths, file)
	}
}

func TestCollectPathsMissingRoot(t *testing.T) {
	if _, err := CollectPaths([]string{filepath.Join(t.TempDir(), "nope")}, []string{".rb"}); err == nil {
		t.Error("CollectPaths on a missing root returned nil error")
	}
}

func TestParseTree(t *testing.T) {
	root := t.TempDir()
	writeStub(t, filepath.Join(root, "a.rb"), "# A.\nclass A\nend\n")
	writeStub(t, filepath.Join(root, "b.rb"), "# B.\nclass B\nend\n")
	writeStub(t, filepath.Join(root, "broken.rb"), "end\n")

	results, err := ParseTree(context.Background(), []string{root}, []string{".rb"})
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Path order regardless of which goroutine finished first.
	wantBases := []string{"a.rb", "b.rb", "broken.rb"}
	for i, want := range wantBases {
		if got := filepath.Base(results[i].File.Path); got != want {
			t.Errorf("results[%d] = %s, want %s", i, got, want)
		}
	}

	if len(results[0].Issues) != 0 || len(results[1].Issues) != 0 {
		t.Errorf("clean files reported issues: %v %v", results[0].Issues, results[1].Issues)
	}
	if len(results[2].Issues) == 0 {
		t.Error("broken file reported no issues")
	}
}

func TestParseTreeCancelled(t *testing.T) {
	root := t.TempDir()
	writeStub(t, filepath.Join(root, "a.rb"), "class A\nend\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseTree(ctx, []string{root}, []string{".rb"}); err == nil {
		t.Error("ParseTree with cancelled context returned nil error")
	}
}
