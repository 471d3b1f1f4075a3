package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cricket-hub/external/identity"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfile")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	refresh, err := parseOptionalBool(r.URL.Query().Get("refresh"), "refresh")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if refresh {
		h.profileService.Clear(principal.UserID)
	}

	item, err := h.profileService.Load(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "load profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(item))
}

// Connectivity probes the API and, when the request resolved to a
// credential, an authenticated endpoint.
func (h *Handler) Connectivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Connectivity")
	defer span.End()

	var token string
	if cred, ok := identity.CredentialFromContext(ctx); ok {
		token = cred.Token
	}
	authenticated := h.connectivityService.ProbeAuthenticated(ctx, token)

	out := connectivityDTO{
		API:           h.connectivityService.ProbeAPI(ctx),
		Authenticated: &authenticated,
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
