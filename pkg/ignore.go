package dup

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreManager holds regular expressions for paths the scanner should skip.
// Patterns match the slash-separated path relative to the scanned directory.
type IgnoreManager struct {
	patterns []*regexp.Regexp
}

// NewIgnoreManager creates an ignore manager from pattern strings
func NewIgnoreManager(patterns ...string) (*IgnoreManager, error) {
	im := &IgnoreManager{}
	for _, p := range patterns {
		if err := im.AddPattern(p); err != nil {
			return nil, err
		}
	}
	return im, nil
}

// LoadIgnoreFile appends patterns from a file, one per line.
// Empty lines and lines starting with # are skipped.
func (im *IgnoreManager) LoadIgnoreFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return fmt.Errorf("invalid regex pattern at line %d: %s - %w", lineNum, line, err)
		}
		im.patterns = append(im.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}
	return nil
}

// AddPattern adds a new ignore pattern
func (im *IgnoreManager) AddPattern(patternStr string) error {
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %s - %w", patternStr, err)
	}
	im.patterns = append(im.patterns, pattern)
	return nil
}

// ShouldIgnore checks if a relative path matches any pattern. A nil manager ignores nothing.
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if im == nil {
		return false
	}

	normalisedPath := filepath.ToSlash(relativePath)
	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}
	return false
}

// HasPatterns returns true if there are any ignore patterns
func (im *IgnoreManager) HasPatterns() bool {
	return im != nil && len(im.patterns) > 0
}

// Patterns returns the pattern sources in the order they were added
func (im *IgnoreManager) Patterns() []string {
	if im == nil {
		return nil
	}
	out := make([]string, 0, len(im.patterns))
	for _, p := range im.patterns {
		out = append(out, p.String())
	}
	return out
}
