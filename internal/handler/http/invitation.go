package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/domain/invitation"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type InvitationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

// Create implements InvitationHandler
func (h *invitationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	var req invitation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.invitationService.Create(r.Context(), tenantID, req, actor)
	if err != nil {
		if created.ID != "" {
			slog.ErrorContext(r.Context(), "Invitation stored but follow-up failed",
				"tenant_id", tenantID,
				"invitation_id", created.ID,
				"error", err,
			)
		}
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/tenants/%s/invitations/%s", tenantID, created.ID))
	response.Created(w, "Invitation created successfully", invitation.CreatedResponse{ID: created.ID})
}

// List implements InvitationHandler
func (h *invitationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	query := r.URL.Query()

	var req invitation.ListRequest
	if query.Has("search") {
		search := query.Get("search")
		req.Search = &search
	}

	first, err := parseOptionalInt(query.Get("first"))
	if err != nil {
		response.BadRequest(w, "first must be an integer", nil)
		return
	}
	req.First = first

	maxResults, err := parseOptionalInt(query.Get("max"))
	if err != nil {
		response.BadRequest(w, "max must be an integer", nil)
		return
	}
	req.Max = maxResults

	filter, err := req.ToFilter(h.invitationService.DefaultPageSize())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, err := h.invitationService.List(r.Context(), tenantID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, &response.Meta{
		First: filter.First,
		Max:   filter.Max,
		Count: len(results),
	})
}

// Delete implements InvitationHandler
func (h *invitationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	invitationID := chi.URLParam(r, "invitationID")

	actor, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "User ID not found in token")
		return
	}

	if err := h.invitationService.Remove(r.Context(), tenantID, invitationID, actor); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

func actorFromRequest(r *http.Request) (invitation.Actor, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return invitation.Actor{}, false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return invitation.Actor{}, false
	}
	return invitation.Actor{UserID: userID}, true
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
