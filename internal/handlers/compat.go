package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fleetgrid/partcompat/internal/compat"
	"github.com/fleetgrid/partcompat/internal/middleware"
	"github.com/fleetgrid/partcompat/internal/models"
	"github.com/fleetgrid/partcompat/internal/services/printer"
	"github.com/gorilla/mux"
)

// identity is the caller extracted from the verified token. The
// organization comes from the X-Org-ID header, falling back to the
// user's default organization.
type identity struct {
	UserID string
	OrgID  string
}

func (r *Router) identify(req *http.Request) (identity, bool) {
	claims := middleware.Claims(req)
	if claims == nil {
		return identity{}, false
	}
	userID, _ := claims["id"].(string)
	if userID == "" {
		return identity{}, false
	}

	orgID := req.Header.Get("X-Org-ID")
	if orgID == "" {
		orgID, _ = claims["defaultOrgId"].(string)
	}
	if orgID == "" {
		return identity{}, false
	}
	return identity{UserID: userID, OrgID: orgID}, true
}

// requireMember resolves the caller and checks active membership
func (r *Router) requireMember(w http.ResponseWriter, req *http.Request) (identity, bool) {
	id, ok := r.identify(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "No organization context (set X-Org-ID or a default organization)")
		return identity{}, false
	}
	if err := r.tenants.RequireMember(req.Context(), id.UserID, id.OrgID); err != nil {
		respondDomainError(w, err)
		return identity{}, false
	}
	return id, true
}

// requireAdmin resolves the caller and checks the admin role
func (r *Router) requireAdmin(w http.ResponseWriter, req *http.Request) (identity, bool) {
	id, ok := r.identify(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "No organization context (set X-Org-ID or a default organization)")
		return identity{}, false
	}
	if err := r.tenants.RequireAdmin(req.Context(), id.UserID, id.OrgID); err != nil {
		respondDomainError(w, err)
		return identity{}, false
	}
	return id, true
}

// matchEquipment handles GET /api/compat/equipment?ids=a,b,c
func (r *Router) matchEquipment(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireMember(w, req)
	if !ok {
		return
	}

	var equipmentIDs []string
	if raw := req.URL.Query().Get("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				equipmentIDs = append(equipmentIDs, part)
			}
		}
	}

	parts, err := r.resolver.MatchEquipment(req.Context(), id.OrgID, equipmentIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"parts": parts})
}

// searchAlternates handles GET /api/compat/search?q=...&prefix=true
func (r *Router) searchAlternates(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireMember(w, req)
	if !ok {
		return
	}

	q := req.URL.Query().Get("q")
	prefix := req.URL.Query().Get("prefix") == "true"

	alternates, err := r.resolver.FindAlternates(req.Context(), id.OrgID, q, prefix)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alternates": alternates})
}

// itemAlternates handles GET /api/compat/items/{id}/alternates
func (r *Router) itemAlternates(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireMember(w, req)
	if !ok {
		return
	}

	itemID := mux.Vars(req)["id"]
	alternates, err := r.resolver.FindAlternatesForItem(req.Context(), id.OrgID, itemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alternates": alternates})
}

// getItemRules handles GET /api/compat/rules/items/{id}
func (r *Router) getItemRules(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireMember(w, req)
	if !ok {
		return
	}
	r.respondRules(w, req, compat.ItemScope(id.OrgID, mux.Vars(req)["id"]))
}

// getTemplateRules handles GET /api/compat/rules/templates/{id}
func (r *Router) getTemplateRules(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireMember(w, req)
	if !ok {
		return
	}
	r.respondRules(w, req, compat.TemplateScope(id.OrgID, mux.Vars(req)["id"]))
}

func (r *Router) respondRules(w http.ResponseWriter, req *http.Request, scope compat.RuleScope) {
	rules, err := r.rules.RulesForScope(req.Context(), scope)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"rules": rules})
}

// putItemRules handles PUT /api/compat/rules/items/{id}
func (r *Router) putItemRules(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}
	r.replaceRules(w, req, compat.ItemScope(id.OrgID, mux.Vars(req)["id"]))
}

// putTemplateRules handles PUT /api/compat/rules/templates/{id}
func (r *Router) putTemplateRules(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}
	r.replaceRules(w, req, compat.TemplateScope(id.OrgID, mux.Vars(req)["id"]))
}

func (r *Router) replaceRules(w http.ResponseWriter, req *http.Request, scope compat.RuleScope) {
	var body struct {
		Rules []compat.RuleInput `json:"rules"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	count, err := r.rules.ReplaceRules(req.Context(), scope, body.Rules)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"inserted": count})
}

// createGroup handles POST /api/compat/groups
func (r *Router) createGroup(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}

	var in compat.GroupInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	group, err := r.groups.CreateGroup(req.Context(), id.OrgID, id.UserID, in)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

// putGroupMembers handles PUT /api/compat/groups/{id}/members
func (r *Router) putGroupMembers(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}

	var body struct {
		Members []compat.MemberInput `json:"members"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	count, err := r.groups.ReplaceMembers(req.Context(), id.OrgID, mux.Vars(req)["id"], body.Members)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"inserted": count})
}

// verifyGroup handles POST /api/compat/groups/{id}/verify
func (r *Router) verifyGroup(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}

	group, err := r.groups.VerifyGroup(req.Context(), id.OrgID, mux.Vars(req)["id"], id.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// deprecateGroup handles POST /api/compat/groups/{id}/deprecate
func (r *Router) deprecateGroup(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}

	group, err := r.groups.DeprecateGroup(req.Context(), id.OrgID, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// registerIdentifier handles POST /api/compat/identifiers
func (r *Router) registerIdentifier(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireAdmin(w, req)
	if !ok {
		return
	}

	var in compat.IdentifierInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ident, err := r.groups.RegisterIdentifier(req.Context(), id.OrgID, in)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, ident)
}

// pickSheet handles GET /api/compat/equipment/{id}/sheet
func (r *Router) pickSheet(w http.ResponseWriter, req *http.Request) {
	id, ok := r.requireMember(w, req)
	if !ok {
		return
	}
	equipmentID := mux.Vars(req)["id"]

	var equipment models.Equipment
	err := r.db.Where("id = ? AND organization_id = ?", equipmentID, id.OrgID).
		First(&equipment).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Equipment not found")
		return
	}

	parts, err := r.resolver.MatchEquipment(req.Context(), id.OrgID, []string{equipmentID})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	pdf, err := printer.GeneratePickSheetPDF(printer.SheetData{
		Equipment: equipment,
		Parts:     parts,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"pick-sheet-%s.pdf\"", equipmentID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// suggestAlternates handles POST /api/compat/suggest
func (r *Router) suggestAlternates(w http.ResponseWriter, req *http.Request) {
	_, ok := r.requireMember(w, req)
	if !ok {
		return
	}

	if !r.suggester.Available() {
		respondError(w, http.StatusServiceUnavailable, "AI suggestions are not configured")
		return
	}

	var body struct {
		PartNumber   string `json:"partNumber"`
		Manufacturer string `json:"manufacturer"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(body.PartNumber) == "" {
		respondError(w, http.StatusBadRequest, "partNumber is required")
		return
	}

	suggestions, err := r.suggester.SuggestAlternates(req.Context(), body.PartNumber, body.Manufacturer)
	if err != nil {
		respondError(w, http.StatusBadGateway, "AI suggestion failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}
