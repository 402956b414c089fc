package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/pkg/apiclient"
	"github.com/aussiebroadwan/tasker/pkg/httpx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

type LinkStartHandler struct {
	LinkService *service.LinkService
}

// ServeHTTP godoc
//
//	@Summary		Start account link
//	@Description	Issue a single-use link code for an external chat identity. Bot service only; request must be signed.
//	@Tags			Linking
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apiclient.StartLinkRequest	true	"External identity"
//	@Success		200		{object}	apiclient.StartLinkResponse
//	@Failure		400		{object}	httpx.ErrorBody	"invalid_request"
//	@Failure		401		{object}	httpx.ErrorBody	"invalid_signature or invalid_token"
//	@Failure		403		{object}	httpx.ErrorBody	"forbidden"
//	@Router			/api/link/start [post].
func (h *LinkStartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req apiclient.StartLinkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	lc, err := h.LinkService.CreateFor(ctx, req.ExternalID, 0)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "external_id is required")
			return
		}
		slogx.FromContext(ctx).Error("failed to issue link code", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiclient.StartLinkResponse{Code: lc.Code, ExpiresAt: lc.ExpiresAt})
}

type LinkConfirmHandler struct {
	LinkService *service.LinkService
}

// ServeHTTP godoc
//
//	@Summary		Confirm account link
//	@Description	Consume a link code and bind the external identity to its user. Bot service only; request must be signed.
//	@Description	Rejections use error code_not_found, identity_mismatch, already_used or expired with a readable detail.
//	@Tags			Linking
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apiclient.ConfirmLinkRequest	true	"Identity and code"
//	@Success		200		{object}	apiclient.ConfirmLinkResponse
//	@Failure		400		{object}	httpx.ErrorBody	"link rejected or invalid_request"
//	@Failure		401		{object}	httpx.ErrorBody	"invalid_signature or invalid_token"
//	@Failure		403		{object}	httpx.ErrorBody	"forbidden"
//	@Failure		429		{object}	httpx.ErrorBody	"rate_limit_exceeded"
//	@Router			/api/link/confirm [post].
func (h *LinkConfirmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req apiclient.ConfirmLinkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	u, err := h.LinkService.Confirm(ctx, req.ExternalID, req.Code, req.ChatID)
	if err != nil {
		var le *service.LinkError
		switch {
		case errors.As(err, &le):
			httpx.WriteError(w, http.StatusBadRequest, string(le.Kind), le.Message)
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "external_id and code are required")
		default:
			slogx.FromContext(ctx).Error("link confirm failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiclient.ConfirmLinkResponse{
		Status: "linked",
		User:   apiclient.UserInfo{ID: u.ID, Username: u.Username},
	})
}
