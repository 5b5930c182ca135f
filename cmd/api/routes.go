package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
	"libraryapi/internal/loan"
)

type routerConfig struct {
	jwtSecret      string
	tokenTTL       time.Duration
	allowedOrigins []string
	enableHSTS     bool
	maxBodyBytes   int64
	rateLimitRPS   float64
	rateLimitBurst int
}

// newRouter wires repositories, services and handlers onto a ServeMux and
// wraps it with the middleware chain.
func newRouter(db *pgxpool.Pool, logger *logrus.Logger, cfg routerConfig) http.Handler {
	const repoTimeout = 5 * time.Second

	bookRepo := book.NewPostgresRepo(db, repoTimeout)
	loanRepo := loan.NewPostgresRepo(db, repoTimeout)
	librarianRepo := auth.NewPostgresRepo(db, repoTimeout)

	bookService := book.NewService(bookRepo)
	loanService := loan.NewService(loanRepo, bookRepo)
	authService := auth.NewService(librarianRepo, cfg.jwtSecret, cfg.tokenTTL)

	bookHandler := book.NewHTTPHandler(bookService, logger)
	loanHandler := loan.NewHTTPHandler(loanService, logger)
	authHandler := auth.NewHTTPHandler(authService, logger)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /api/books", bookHandler.Create)
	router.HandleFunc("GET /api/books", bookHandler.List)
	router.HandleFunc("GET /api/books/{id}", bookHandler.Get)
	router.HandleFunc("PUT /api/books/{id}", bookHandler.Update)
	router.HandleFunc("DELETE /api/books/{id}", bookHandler.Delete)
	router.HandleFunc("GET /api/books/{id}/loans", loanHandler.ListByBook)

	router.HandleFunc("POST /api/loans", loanHandler.Create)
	router.HandleFunc("GET /api/loans", loanHandler.List)
	router.HandleFunc("GET /api/loans/{id}", loanHandler.Get)
	router.HandleFunc("PATCH /api/loans/{id}", loanHandler.Return)

	router.HandleFunc("POST /api/auth/register", authHandler.Register)
	router.HandleFunc("POST /api/auth/login", authHandler.Login)
	protectedMe := httpx.AuthMiddleware(cfg.jwtSecret)(http.HandlerFunc(authHandler.Me))
	router.Handle("GET /api/auth/me", protectedMe)

	rateLimit := httpx.NewRateLimitMiddleware(cfg.rateLimitRPS, cfg.rateLimitBurst)

	var handler http.Handler = router
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(cfg.maxBodyBytes)(handler)
	handler = httpx.CORSMiddleware(cfg.allowedOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(cfg.enableHSTS)(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	return handler
}
