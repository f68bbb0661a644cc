// Common test helpers
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/booksearch/config"
	"github.com/meghashyamc/booksearch/db/kvdb"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/services/history"
	"github.com/meghashyamc/booksearch/services/search"
	"github.com/meghashyamc/booksearch/validation"
	"github.com/stretchr/testify/require"
)

type testRecord map[string]any

type testBook struct {
	batch   string
	name    string
	records []testRecord
}

var testBooks = []testBook{
	{
		batch: "out_1",
		name:  "Concurrency Notes Ada Lovelace 120p_1111111111",
		records: []testRecord{
			{"ocr_text": "gophers share memory by communicating", "local_filename": "a-001.jpg", "permalink_url": "https://example.com/a-001"},
			{"ocr_text": "a gopher waits on a channel", "local_filename": "a-002.jpg", "permalink_url": "https://example.com/a-002"},
			{"ocr_text": "every gopher has a stack", "local_filename": "a-003.jpg", "permalink_url": "https://example.com/a-003"},
			{"ocr_text": "the scheduler parks a gopher", "local_filename": "a-004.jpg", "permalink_url": "https://example.com/a-004"},
			{"ocr_text": "select lets a gopher wait on many channels", "local_filename": "a-005.jpg", "permalink_url": "https://example.com/a-005"},
			{"ocr_text": "a mutex guards the gopher's state", "local_filename": "a-006.jpg", "permalink_url": "https://example.com/a-006"},
			{"ocr_text": "no more gopher pages", "local_filename": "a-007.jpg", "permalink_url": "https://example.com/a-007"},
		},
	},
	{
		batch: "out_2",
		name:  "Another Title Grace Hopper 80p_2222222222",
		records: []testRecord{
			{"ocr_text": "compilers and debugging", "local_filename": "b-001.jpg", "permalink_url": "https://example.com/b-001"},
			{"ocr_text": "one last gopher", "local_filename": "b-002.jpg", "permalink_url": "https://example.com/b-002"},
			{"local_filename": "b-003.jpg", "permalink_url": "https://example.com/b-003"},
		},
	},
}

type searchResponseBody struct {
	Data   SearchResponse `json:"data"`
	Errors []string       `json:"errors"`
}

type historyListResponseBody struct {
	Data   []*history.Record `json:"data"`
	Errors []string          `json:"errors"`
}

type historyResponseBody struct {
	Data   *history.Record `json:"data"`
	Errors []string        `json:"errors"`
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func writeTestBooks(assert *require.Assertions, baseDir string) {
	for _, book := range testBooks {
		bookDir := filepath.Join(baseDir, book.batch, book.name)
		err := os.MkdirAll(bookDir, 0755)
		assert.NoError(err, "could not create book directory")
		content, err := json.Marshal(book.records)
		assert.NoError(err, "could not marshal records")
		err = os.WriteFile(filepath.Join(bookDir, search.DefaultDataFile), content, 0644)
		assert.NoError(err, "could not write data file")
	}
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, *config.Config) {

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")

	baseDir := t.TempDir()
	writeTestBooks(assert, baseDir)

	testLogger := newTestLogger()

	kvDB, err := kvdb.New(testLogger, filepath.Join(t.TempDir(), "history.db"))
	assert.NoError(err, "could not create kv database")
	t.Cleanup(func() {
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	searchService := search.New(testLogger, search.Options{
		BaseDir:    baseDir,
		MaxWorkers: cfg.GetMaxWorkers(),
	})
	historyService := history.New(testLogger, kvDB)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupSearch(router, testLogger, searchService, historyService, validator, cfg.GetDefaultLimit())
	SetupHistory(router, testLogger, historyService, validator)

	return router, cfg
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, queryParams map[string]string) *httptest.ResponseRecorder {

	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint)

	req, err := http.NewRequest(method, endpoint, nil)
	assert.NoError(err)

	router.ServeHTTP(w, req)

	return w
}
