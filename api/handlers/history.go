package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/booksearch/db/kvdb"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/validation"
)

type SearchRecordRequest struct {
	ID string `uri:"id" json:"id" validate:"required,uuid4"`
}

func SetupHistory(router *gin.Engine, logger logger.Logger, searchHistory History, validator *validation.Validator) {
	router.GET("/searches", handleListSearchRecords(searchHistory, logger))
	router.GET("/searches/:id", handleGetSearchRecord(searchHistory, logger, validator))
	router.DELETE("/searches/:id", handleDeleteSearchRecord(searchHistory, logger, validator))
}

func handleListSearchRecords(searchHistory History, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := searchHistory.List()
		if err != nil {
			logger.Error("could not list search records", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, records, http.StatusOK, nil)
	}
}

func handleGetSearchRecord(searchHistory History, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindSearchRecordRequest(c, logger, validator)
		if !ok {
			return
		}

		record, err := searchHistory.Get(request.ID)
		if err != nil {
			writeSearchRecordError(c, logger, request.ID, err)
			return
		}

		writeResponse(c, record, http.StatusOK, nil)
	}
}

func handleDeleteSearchRecord(searchHistory History, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindSearchRecordRequest(c, logger, validator)
		if !ok {
			return
		}

		record, err := searchHistory.Delete(request.ID)
		if err != nil {
			writeSearchRecordError(c, logger, request.ID, err)
			return
		}

		logger.Info("deleted search record", "id", request.ID)
		writeResponse(c, record, http.StatusOK, nil)
	}
}

func bindSearchRecordRequest(c *gin.Context, logger logger.Logger, validator *validation.Validator) (SearchRecordRequest, bool) {
	request := SearchRecordRequest{}
	if err := c.ShouldBindUri(&request); err != nil {
		logger.Warn("could not extract search id from request", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract search id"})
		return request, false
	}

	if err := validator.Validate(request); err != nil {
		logger.Warn("could not validate search record request", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return request, false
	}

	return request, true
}

func writeSearchRecordError(c *gin.Context, logger logger.Logger, id string, err error) {
	c.Abort()
	if errors.Is(err, kvdb.ErrNotFound) {
		writeResponse(c, nil, http.StatusNotFound, []string{"search not found"})
		return
	}

	logger.Error("search record operation failed", "id", id, "err", err.Error())
	writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
}
