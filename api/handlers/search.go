package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/services/history"
	"github.com/meghashyamc/booksearch/services/search"
	"github.com/meghashyamc/booksearch/validation"
)

// Searcher runs a search over all books. It never fails.
type Searcher interface {
	Search(query string, limit int) *search.Response
}

// History records searches and looks them up by id.
type History interface {
	Record(query string, limit int, hits int, took time.Duration) (*history.Record, error)
	Get(id string) (*history.Record, error)
	List() ([]*history.Record, error)
	Delete(id string) (*history.Record, error)
}

type SearchRequest struct {
	Query string `form:"query" json:"query" validate:"required,valid_query,min=1,max=1000"`
	Limit int    `form:"limit" json:"limit" validate:"min=0,max=100"`
}

func (r *SearchRequest) setDefaults(defaultLimit int) {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
}

type SearchResponse struct {
	ID      string          `json:"id"`
	Results []search.Result `json:"results"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, searcher Searcher, searchHistory History, validator *validation.Validator, defaultLimit int) {
	router.GET("/search", handleSearch(searcher, searchHistory, logger, validator, defaultLimit))
}

func handleSearch(searcher Searcher, searchHistory History, logger logger.Logger, validator *validation.Validator, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}
		request.setDefaults(defaultLimit)

		start := time.Now()
		results := searcher.Search(request.Query, request.Limit)

		searchResponse := SearchResponse{Results: results.Data}

		// History is best effort; the search result is still returned
		record, err := searchHistory.Record(request.Query, request.Limit, len(results.Data), time.Since(start))
		if err != nil {
			logger.Warn("could not record search", "err", err.Error())
		} else {
			searchResponse.ID = record.ID
		}

		writeResponse(c, searchResponse, http.StatusOK, nil)
	}
}
