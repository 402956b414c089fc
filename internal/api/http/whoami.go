package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/pkg/apiclient"
	"github.com/aussiebroadwan/tasker/pkg/httpx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

type WhoAmIHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the user the bearer token was issued to. Request must be signed.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	apiclient.UserInfo
//	@Failure		401	{object}	httpx.ErrorBody	"invalid_signature or invalid_token"
//	@Router			/api/whoami [get].
func (h *WhoAmIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.SubjectFrom(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing subject")
		return
	}

	u, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "unknown subject")
			return
		}
		slogx.FromContext(ctx).Error("failed to load user", "user_id", userID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, apiclient.UserInfo{ID: u.ID, Username: u.Username})
}
