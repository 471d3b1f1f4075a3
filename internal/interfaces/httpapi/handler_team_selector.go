package httpapi

import "net/http"

type selectPositionRequest struct {
	TeamID   string `json:"team_id" validate:"required"`
	Position int    `json:"position" validate:"required,min=1"`
}

type confirmSelectionRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}

func (h *Handler) OpenTeamSelector(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenTeamSelector")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathValue(r, "matchID")
	view, err := h.selectorService.Open(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "open team selector failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectorToDTO(view))
}

func (h *Handler) GetTeamSelector(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSelector")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.selectorService.View(ctx, principal.UserID, pathValue(r, "matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectorToDTO(view))
}

func (h *Handler) SelectPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectPosition")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req selectPositionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.selectorService.Select(ctx, principal.UserID, pathValue(r, "matchID"), req.TeamID, req.Position)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectorToDTO(view))
}

func (h *Handler) ConfirmTeamSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmTeamSelection")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req confirmSelectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathValue(r, "matchID")
	view, err := h.selectorService.Confirm(ctx, principal.UserID, matchID, *req.Confirmed)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm team selection failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		if view.MatchID != "" {
			writeErrorWithData(ctx, w, err, selectorToDTO(view))
			return
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectorToDTO(view))
}

func (h *Handler) CloseTeamSelector(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseTeamSelector")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.selectorService.Close(ctx, principal.UserID, pathValue(r, "matchID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"closed": true})
}
