package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/booksearch/api/handlers"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, searcher handlers.Searcher, history handlers.History, validator *validation.Validator, defaultLimit int) {
	router.GET("/health", health())

	handlers.SetupSearch(router, logger, searcher, history, validator, defaultLimit)
	handlers.SetupHistory(router, logger, history, validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
