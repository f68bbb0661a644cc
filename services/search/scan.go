package search

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meghashyamc/booksearch/services/metadata"
)

// ocrRecord is one page entry of a book's data file.
type ocrRecord struct {
	OCRText       *string `json:"ocr_text"`
	LocalFilename string  `json:"local_filename"`
	PermalinkURL  string  `json:"permalink_url"`
}

// bookScan is the outcome of scanning one book. A non-nil err means the book
// contributes no results.
type bookScan struct {
	book    metadata.Book
	results []Result
	err     error
}

func (s *Service) scanBook(query string, bookDir string) (scan bookScan) {
	scan.book = metadata.Extract(bookDir)

	defer func() {
		if r := recover(); r != nil {
			scan.results = nil
			scan.err = fmt.Errorf("panic while scanning book: %v", r)
		}
	}()

	records, err := readRecords(filepath.Join(bookDir, s.options.DataFile))
	if err != nil {
		scan.err = err
		return scan
	}

	for _, record := range records {
		// Pages without OCR text are not candidates
		if record.OCRText == nil {
			continue
		}

		text := *record.OCRText
		score := Score(query, text)
		if score <= 0 {
			continue
		}

		scan.results = append(scan.results, Result{
			Title:   scan.book.Title,
			Author:  scan.book.Author,
			Page:    record.LocalFilename,
			Content: Excerpt(text, query, DefaultContextChars),
			Score:   score,
			ISBN:    scan.book.ISBN,
			URL:     record.PermalinkURL,
		})
	}

	return scan
}

func readRecords(path string) ([]ocrRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var records []ocrRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	return records, nil
}
