package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fleetgrid/partcompat/internal/ai"
	"github.com/fleetgrid/partcompat/internal/buildinfo"
	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/config"
	"github.com/fleetgrid/partcompat/internal/database"
	"github.com/fleetgrid/partcompat/internal/middleware"
	"github.com/fleetgrid/partcompat/internal/tenant"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the services behind the API
type Router struct {
	*mux.Router
	db        *database.DB
	cfg       *config.Config
	resolver  *compat.Resolver
	rules     *compat.RuleStore
	groups    *compat.GroupStore
	tenants   *tenant.Service
	suggester *ai.Suggester
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, suggester *ai.Suggester) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		cfg:       cfg,
		resolver:  compat.NewResolver(db.DB),
		rules:     compat.NewRuleStore(db.DB),
		groups:    compat.NewGroupStore(db.DB),
		tenants:   tenant.NewService(db.DB),
		suggester: suggester,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Compatibility routes (protected)
	cc := r.PathPrefix("/api/compat").Subrouter()
	cc.Use(middleware.Auth(cfg.JWTSecret))

	cc.HandleFunc("/equipment", r.matchEquipment).Methods("GET")
	cc.HandleFunc("/equipment/{id}/sheet", r.pickSheet).Methods("GET")
	cc.HandleFunc("/search", r.searchAlternates).Methods("GET")
	cc.HandleFunc("/items/{id}/alternates", r.itemAlternates).Methods("GET")

	cc.HandleFunc("/rules/items/{id}", r.getItemRules).Methods("GET")
	cc.HandleFunc("/rules/items/{id}", r.putItemRules).Methods("PUT")
	cc.HandleFunc("/rules/templates/{id}", r.getTemplateRules).Methods("GET")
	cc.HandleFunc("/rules/templates/{id}", r.putTemplateRules).Methods("PUT")

	cc.HandleFunc("/groups", r.createGroup).Methods("POST")
	cc.HandleFunc("/groups/{id}/members", r.putGroupMembers).Methods("PUT")
	cc.HandleFunc("/groups/{id}/verify", r.verifyGroup).Methods("POST")
	cc.HandleFunc("/groups/{id}/deprecate", r.deprecateGroup).Methods("POST")
	cc.HandleFunc("/identifiers", r.registerIdentifier).Methods("POST")

	cc.HandleFunc("/suggest", r.suggestAlternates).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": buildinfo.Version,
		"commit":  buildinfo.CommitHash,
		"started": buildinfo.StartTime,
		"uptime":  buildinfo.Uptime().String(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps the typed domain errors onto HTTP statuses
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case compat.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case compat.IsPermission(err):
		respondError(w, http.StatusForbidden, err.Error())
	case compat.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case compat.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
