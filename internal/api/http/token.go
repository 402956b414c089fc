package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/pkg/apiclient"
	"github.com/aussiebroadwan/tasker/pkg/httpx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Exchange a username and password for an access token and a refresh token.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apiclient.LoginRequest	true	"Credentials"
//	@Success		200		{object}	apiclient.TokenPair
//	@Failure		400		{object}	httpx.ErrorBody	"invalid_request"
//	@Failure		401		{object}	httpx.ErrorBody	"invalid_credentials"
//	@Failure		429		{object}	httpx.ErrorBody	"rate_limit_exceeded"
//	@Router			/api/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req apiclient.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	pair, err := h.TokenService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("login rejected", "username", req.Username)
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		log.Error("login failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiclient.TokenPair{Access: pair.Access, Refresh: pair.Refresh})
}

type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh access token
//	@Description	Mint a new access token from a refresh token. The refresh token is not rotated.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		apiclient.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	apiclient.RefreshResponse
//	@Failure		400		{object}	httpx.ErrorBody	"invalid_request"
//	@Failure		401		{object}	httpx.ErrorBody	"invalid_token"
//	@Router			/api/token/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req apiclient.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Refresh == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refresh is required")
		return
	}

	access, err := h.TokenService.Refresh(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "refresh token is invalid or expired")
			return
		}
		slogx.FromContext(ctx).Error("refresh failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiclient.RefreshResponse{Access: access})
}
