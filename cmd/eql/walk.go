package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"github.com/rlch/eql"
)

// File discovery errors.
var ErrNoInputFiles = errors.New("no input files found")

// loadConfig returns the nearest .eql.yaml, or nil when none exists.
func loadConfig() *eql.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}

	cfg, err := eql.LoadConfig(cwd)
	if err != nil {
		return nil
	}

	return cfg
}

// discoverFiles resolves CLI path arguments into transaction files.
// Directories are walked recursively, respecting .gitignore; explicit file
// arguments are taken as-is.
func discoverFiles(args, extensions []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			found, err := walkDir(arg, extensions)
			if err != nil {
				return nil, err
			}

			files = append(files, found...)

			continue
		}

		files = append(files, arg)
	}

	if len(files) == 0 {
		return nil, ErrNoInputFiles
	}

	slices.Sort(files)

	return files, nil
}

// walkDir walks a directory for matching files, respecting .gitignore.
func walkDir(root string, extensions []string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = extensions

	var walkErr error

	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e

		return true
	})

	var (
		files []string
		wg    sync.WaitGroup
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for f := range fileListQueue {
			files = append(files, f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	return files, walkErr
}

// displayPath shortens an absolute path for diagnostics.
func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}

	return path
}
