package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/infra/events"
	"youtube-performance-tracker/internal/usecase"
)

type Server struct {
	paymentUC usecase.PaymentUseCase
	channelUC *usecase.ChannelUseCase
	statsUC   usecase.StatsUseCase
	planUC    *usecase.PlanUseCase
	bus       *events.PaymentBus
	auth      *AuthManager
	adminPass string
	log       *zerolog.Logger

	server *http.Server
}

func NewServer(
	port int,
	paymentUC usecase.PaymentUseCase,
	channelUC *usecase.ChannelUseCase,
	statsUC usecase.StatsUseCase,
	planUC *usecase.PlanUseCase,
	bus *events.PaymentBus,
	auth *AuthManager,
	adminPass string,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "Web").Logger()
	s := &Server{
		paymentUC: paymentUC,
		channelUC: channelUC,
		statsUC:   statsUC,
		planUC:    planUC,
		bus:       bus,
		auth:      auth,
		adminPass: adminPass,
		log:       &webLog,
	}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/pix", s.handleCreatePix)
		r.Post("/subscribe", s.handleSubscribe)
		r.Post("/webhook", s.handleWebhook)
		r.Get("/{id}", s.handlePaymentStatus)
		r.Get("/{id}/stream", s.handlePaymentStream)
	})

	r.Route("/api/channels", func(r chi.Router) {
		r.Use(requireCompany)
		r.Get("/", s.handleListChannels)
		r.Post("/", s.handleAddChannel)
		r.Delete("/{id}", s.handleRemoveChannel)
		r.Get("/{id}/videos", s.handleChannelVideos)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", s.handleAdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/metrics/summary", s.handleStatsSummary)
			r.Get("/metrics/revenue-by-plan", s.handleRevenueByPlan)
			r.Get("/metrics/revenue-trend", s.handleRevenueTrend)
			r.Get("/plans", s.handleListPlans)
			r.Post("/plans", s.handleUpsertPlan)
			r.Delete("/plans/{id}", s.handleDeletePlan)
		})
	})

	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requireAdmin guards the back-office API behind a valid JWT session.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password == "" {
		writeError(w, http.StatusBadRequest, "password required")
		return
	}
	if s.adminPass == "" || body.Password != s.adminPass {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ---- shared helpers ----

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case domain.IsGatewayError(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
