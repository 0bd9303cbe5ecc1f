package service

import (
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// LoadRequest reads one request from a YAML or JSON file.
func LoadRequest(path string) (rfp.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rfp.Request{}, fmt.Errorf("read request: %w", err)
	}

	var req rfp.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return rfp.Request{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return req, nil
}

// ExpandPaths resolves glob patterns, including ** segments, into a sorted
// list of unique files. A pattern without glob syntax is kept as given so a
// missing file surfaces as a read error.
func ExpandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", pattern, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			matches = []string{pattern}
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	slices.Sort(paths)
	return paths, nil
}

// LoadRequests expands patterns and loads every matched file.
func LoadRequests(patterns []string) ([]rfp.Request, error) {
	paths, err := ExpandPaths(patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no request files match %v", patterns)
	}

	reqs := make([]rfp.Request, 0, len(paths))
	for _, p := range paths {
		req, err := LoadRequest(p)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
