package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/metrics"
	"learnhub-checkout/internal/usecase"
)

// Server is the operator-facing admin API: plan management, gateway toggles
// and the dashboard stats. It is independent of the shopper API and is meant
// to listen on a separate, non-public port.
type Server struct {
	statsUC  usecase.StatsUseCase
	plans    repository.PlanRepository
	gateways repository.GatewayRepository
	apiKey   string
	auth     *AuthManager
	log      *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	plans repository.PlanRepository,
	gateways repository.GatewayRepository,
	apiKey string,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		statsUC:  statsUC,
		plans:    plans,
		gateways: gateways,
		apiKey:   apiKey,
		auth:     auth,
		log:      logger,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/admin/auth/login", s.loginHandler)
	mux.HandleFunc("/api/v1/admin/auth/logout", s.logoutHandler)

	mux.Handle("/api/v1/stats", s.authMiddleware(statsHandler(s.statsUC)))

	plansRouter := s.authMiddleware(s.plansRouter())
	mux.Handle("/api/v1/plans", plansRouter)
	mux.Handle("/api/v1/plans/", plansRouter)

	gatewaysRouter := s.authMiddleware(s.gatewaysRouter())
	mux.Handle("/api/v1/gateways", gatewaysRouter)
	mux.Handle("/api/v1/gateways/", gatewaysRouter)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.apiKey == "" || s.auth == nil {
		s.log.Error().Msg("admin API key or auth manager is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.apiKey)) != 1 {
		metrics.IncAdminRequest("login", "unauthorized")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := s.auth.Mint(w); err != nil {
		s.log.Error().Err(err).Msg("failed to mint admin session")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	metrics.IncAdminRequest("login", "authorized")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.auth != nil {
		s.auth.Clear(w)
	}
	w.WriteHeader(http.StatusNoContent)
}

// authMiddleware validates the admin session (Bearer header or cookie) minted
// by the login handler.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			s.log.Error().Msg("admin auth manager is not configured")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			metrics.IncAdminRequest(r.URL.Path, "unauthorized")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		metrics.IncAdminRequest(r.URL.Path, "authorized")
		next.ServeHTTP(w, r)
	})
}

// plansRouter dispatches /api/v1/plans and /api/v1/plans/{id}.
func (s *Server) plansRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/plans")
		path = strings.Trim(path, "/")

		if path == "" {
			switch r.Method {
			case http.MethodGet:
				plansListHandler(s.plans)(w, r)
			case http.MethodPost:
				plansCreateHandler(s.plans)(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		switch r.Method {
		case http.MethodPut:
			plansUpdateHandler(s.plans, path)(w, r)
		case http.MethodDelete:
			plansDeleteHandler(s.plans, path)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// gatewaysRouter dispatches /api/v1/gateways, /api/v1/gateways/{id} and
// /api/v1/gateways/{id}/primary.
func (s *Server) gatewaysRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/gateways")
		path = strings.Trim(path, "/")

		if path == "" {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			gatewaysListHandler(s.gateways)(w, r)
			return
		}

		if id, ok := strings.CutSuffix(path, "/primary"); ok {
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			gatewayPrimaryHandler(s.gateways, id)(w, r)
			return
		}

		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		gatewayUpsertHandler(s.gateways, path)(w, r)
	})
}
