package parser

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"stubdex/internal/logging"
	"stubdex/internal/stub"
)

// Result pairs one parsed file with the issues found in it.
type Result struct {
	File   *stub.File
	Issues []Issue
}

// DefaultConcurrency bounds parallel file parsing in ParseTree.
const DefaultConcurrency = 8

// CollectPaths walks the given roots (files or directories) and returns
// every stub file matching one of the extensions, sorted by path.
// Hidden directories (".git", ".stubdex", ...) are skipped.
func CollectPaths(roots []string, extensions []string) ([]string, error) {
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[strings.ToLower(e)] = true
	}

	var paths []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			paths = append(paths, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if extSet[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseTree parses every stub file under the given roots concurrently.
// Results are returned in path order. The error is non-nil only for I/O
// failures; parse problems are reported per file in Result.Issues.
func ParseTree(ctx context.Context, roots []string, extensions []string) ([]Result, error) {
	timer := logging.StartTimer(logging.CategoryParser, "parse tree")
	defer timer.Stop()

	paths, err := CollectPaths(roots, extensions)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, issues, err := ParseFile(path)
			if err != nil {
				return err
			}
			results[i] = Result{File: f, Issues: issues}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.Parser("parsed %d files under %v", len(results), roots)
	return results, nil
}
