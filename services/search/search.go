package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/meghashyamc/booksearch/logger"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchPattern = "out*"
	DefaultDataFile     = "gyazo_info.json"

	defaultMaxGoRoutinesForBookScans = 50
)

type Options struct {
	BaseDir      string
	BatchPattern string
	DataFile     string
	MaxWorkers   int
}

type Service struct {
	logger  logger.Logger
	options Options
}

func New(logger logger.Logger, options Options) *Service {
	if options.BatchPattern == "" {
		options.BatchPattern = DefaultBatchPattern
	}
	if options.DataFile == "" {
		options.DataFile = DefaultDataFile
	}
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = defaultMaxGoRoutinesForBookScans
	}

	return &Service{
		logger:  logger,
		options: options,
	}
}

// Search scores every OCR page of every book against query and returns the
// best limit results. It never fails: books that cannot be read are skipped
// and any other failure produces an empty response.
func (s *Service) Search(query string, limit int) (response *Response) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("search failed unexpectedly", "query", query, "err", fmt.Sprint(r))
			response = emptyResponse()
		}
	}()

	bookDirs, err := s.discoverBooks()
	if err != nil {
		s.logger.Error("failed to discover books", "base_dir", s.options.BaseDir, "err", err.Error())
		return emptyResponse()
	}

	results := s.mergeScans(s.scanBooks(query, bookDirs))

	// Stable, so equal scores keep discovery order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	response = &Response{Data: truncate(results, limit)}
	s.logger.Info("search completed", "query", query, "books", len(bookDirs), "matches", len(results), "returned", len(response.Data), "took", time.Since(start).String())

	return response
}

func (s *Service) scanBooks(query string, bookDirs []string) []bookScan {
	scans := make([]bookScan, len(bookDirs))

	var group errgroup.Group
	group.SetLimit(s.options.MaxWorkers)

	for i, bookDir := range bookDirs {
		group.Go(func() error {
			scans[i] = s.scanBook(query, bookDir)
			return nil
		})
	}

	// Scans report failures through bookScan.err, never through the group.
	_ = group.Wait()

	return scans
}

func (s *Service) mergeScans(scans []bookScan) []Result {
	results := make([]Result, 0)
	for _, scan := range scans {
		if scan.err != nil {
			s.logger.Warn("error processing book", "path", scan.book.Directory, "err", scan.err.Error())
			continue
		}
		results = append(results, scan.results...)
	}

	return results
}

func truncate(results []Result, limit int) []Result {
	if limit <= 0 {
		return []Result{}
	}

	return results[:min(limit, len(results))]
}
