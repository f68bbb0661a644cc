package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// discoverBooks lists book directories as base/<batch>/<book>, where batch
// matches the batch pattern and book contains the data file. Any directory
// holding the data file is a book, dot-named ones included. Entries are
// returned in lexical order.
func (s *Service) discoverBooks() ([]string, error) {
	batches, err := os.ReadDir(s.options.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read base directory: %w", err)
	}

	var bookDirs []string
	for _, batch := range batches {
		matched, err := matchesPattern(s.options.BatchPattern, batch.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid batch pattern %q: %w", s.options.BatchPattern, err)
		}
		if !matched {
			continue
		}

		batchPath := filepath.Join(s.options.BaseDir, batch.Name())
		if !isDir(batchPath) {
			continue
		}

		bookDirs = append(bookDirs, s.discoverBooksInBatch(batchPath)...)
	}

	s.logger.Debug("discovered books", "base_dir", s.options.BaseDir, "books", len(bookDirs))

	return bookDirs, nil
}

func (s *Service) discoverBooksInBatch(batchPath string) []string {
	entries, err := os.ReadDir(batchPath)
	if err != nil {
		s.logger.Warn("could not read batch directory", "path", batchPath, "err", err.Error())
		return nil
	}

	var bookDirs []string
	for _, entry := range entries {
		bookPath := filepath.Join(batchPath, entry.Name())
		if !isDir(bookPath) {
			continue
		}

		if _, err := os.Stat(filepath.Join(bookPath, s.options.DataFile)); err != nil {
			s.logger.Debug("skipping directory without data file", "path", bookPath)
			continue
		}

		bookDirs = append(bookDirs, bookPath)
	}

	return bookDirs
}

// matchesPattern follows shell globbing, where hidden names only match
// patterns that start with a dot.
func matchesPattern(pattern string, name string) (bool, error) {
	if isHidden(name) && !strings.HasPrefix(pattern, ".") {
		return false, nil
	}

	return filepath.Match(pattern, name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isDir follows symlinks, unlike fs.DirEntry.IsDir.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
