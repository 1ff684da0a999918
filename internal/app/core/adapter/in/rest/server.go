package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// Server 以 REST 對外提供帳務查詢與入帳
type Server struct {
	ledger   *usecase.LedgerService
	query    *usecase.QueryFacade
	validate *validator.Validate
	logger   zerolog.Logger
	router   chi.Router
}

func NewServer(ledger *usecase.LedgerService, query *usecase.QueryFacade, logger zerolog.Logger) *Server {
	s := &Server{
		ledger:   ledger,
		query:    query,
		validate: validator.New(),
		logger:   logger.With().Str("component", "rest_server").Logger(),
	}
	s.router = s.routes()
	return s
}

// Handler 回傳掛好所有路由的 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Get("/customers", s.listCustomers)
		r.Get("/customers/{id}", s.getCustomer)
		r.Get("/customers/{id}/accounts", s.getCustomerAccounts)

		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}/transactions", s.getAccountTransactions)
		r.Get("/accounts/{id}/statement", s.getAccountStatement)

		r.Get("/transactions", s.listTransactions)
		r.Post("/transactions", s.createTransaction)

		r.Get("/banks/{id}", s.getBank)
	})
	return r
}

// accessLog 每個請求一筆 zerolog 紀錄
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
