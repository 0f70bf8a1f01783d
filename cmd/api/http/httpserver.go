package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bookshelf-api/cmd/api/httpx"
	"github.com/julienschmidt/httprouter"
)

type ServerConfig struct {
	Port           int
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewServer(config ServerConfig, h *BookHandler, logger *slog.Logger) *http.Server {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(notFound)
	router.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/ping", ping)
	router.HandlerFunc(http.MethodPost, "/books", h.addBook)
	router.HandlerFunc(http.MethodGet, "/books", h.listBooks)
	router.HandlerFunc(http.MethodGet, "/books/:id", h.getBookById)
	router.HandlerFunc(http.MethodPut, "/books/:id", h.updateBook)
	router.HandlerFunc(http.MethodDelete, "/books/:id", h.deleteBook)

	var handler http.Handler = router
	handler = httpx.RateLimitMiddleware(config.RateLimitRPS, config.RateLimitBurst, logger)(handler)
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = httpx.RequestIDMiddleware(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)

	server := http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	return &server
}

/* Tests the http server connection.  */
func ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = httpx.JSONFail(w, http.StatusNotFound, "resource not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = httpx.JSONFail(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
}
