package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

func parseMatchFilter(r *http.Request) (match.Filter, error) {
	query := r.URL.Query()
	page, err := parseOptionalInt(query.Get("page"), "page")
	if err != nil {
		return match.Filter{}, err
	}
	perPage, err := parseOptionalInt(query.Get("per_page"), "per_page")
	if err != nil {
		return match.Filter{}, err
	}

	return match.Filter{
		Status:  match.Status(query.Get("status")),
		Type:    match.Type(query.Get("match_type")),
		Page:    page,
		PerPage: perPage,
	}.Normalize(), nil
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	filter, err := parseMatchFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	withRosters, err := parseOptionalBool(r.URL.Query().Get("rosters"), "rosters")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var view usecase.MatchListView
	if withRosters {
		view, err = h.matchService.ListWithRosters(ctx, principal.UserID, filter)
	} else {
		view, err = h.matchService.List(ctx, principal.UserID, filter)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListToDTO(view))
}

func (h *Handler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinMatch")
	defer span.End()

	h.mutateMatch(ctx, w, r, "join", h.matchService.Join)
}

func (h *Handler) LeaveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveMatch")
	defer span.End()

	h.mutateMatch(ctx, w, r, "leave", h.matchService.Leave)
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	h.mutateMatch(ctx, w, r, "delete", h.matchService.Delete)
}

type matchMutation func(ctx context.Context, userID, matchID string, filter match.Filter) (usecase.MatchListView, error)

// mutateMatch runs one list mutation. The refetched list is returned with the
// error so the client can re-render after a failure.
func (h *Handler) mutateMatch(ctx context.Context, w http.ResponseWriter, r *http.Request, action string, run matchMutation) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	filter, err := parseMatchFilter(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathValue(r, "matchID")
	view, err := run(ctx, principal.UserID, matchID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "match mutation failed", "action", action, "match_id", matchID, "user_id", principal.UserID, "error", err)
		if view.Matches != nil {
			writeErrorWithData(ctx, w, err, matchListToDTO(view))
			return
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListToDTO(view))
}
