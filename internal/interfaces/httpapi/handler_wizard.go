package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
)

type startWizardRequest struct {
	Mode    string `json:"mode" validate:"required,oneof=create edit"`
	MatchID string `json:"match_id" validate:"required_if=Mode edit"`
}

type updateWizardRequest struct {
	Title           *string      `json:"title" validate:"omitempty,max=200"`
	MatchType       *string      `json:"match_type"`
	Description     *string      `json:"description" validate:"omitempty,max=2000"`
	Location        *string      `json:"location" validate:"omitempty,max=200"`
	Date            *string      `json:"date"`
	Time            *string      `json:"time"`
	PlayersNeeded   *int         `json:"players_needed"`
	EntryFee        *float64     `json:"entry_fee"`
	Team1Name       *string      `json:"team1_name" validate:"omitempty,max=100"`
	Team2Name       *string      `json:"team2_name" validate:"omitempty,max=100"`
	TournamentTeams *[]string    `json:"tournament_teams"`
	Umpires         *[]umpireDTO `json:"umpires" validate:"omitempty,dive"`
}

func (req updateWizardRequest) patch() wizard.Patch {
	p := wizard.Patch{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Date:            req.Date,
		Time:            req.Time,
		PlayersNeeded:   req.PlayersNeeded,
		EntryFee:        req.EntryFee,
		Team1Name:       req.Team1Name,
		Team2Name:       req.Team2Name,
		TournamentTeams: req.TournamentTeams,
	}
	if req.MatchType != nil {
		t := match.Type(*req.MatchType)
		p.Type = &t
	}
	if req.Umpires != nil {
		umpires := umpiresFromDTO(*req.Umpires)
		p.Umpires = &umpires
	}
	return p
}

func (h *Handler) StartWizard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartWizard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := startWizardRequest{Mode: string(wizard.ModeCreate)}
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var draft wizard.Draft
	if wizard.Mode(req.Mode) == wizard.ModeEdit {
		draft, err = h.formService.StartEdit(ctx, principal.UserID, req.MatchID)
	} else {
		draft, err = h.formService.StartCreate(ctx, principal.UserID)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "start wizard failed", "mode", req.Mode, "match_id", req.MatchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, draftToDTO(draft, nil))
}

func (h *Handler) GetWizard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWizard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	draft, err := h.formService.Get(ctx, principal.UserID, pathValue(r, "draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(draft, nil))
}

func (h *Handler) UpdateWizard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateWizard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateWizardRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	draft, err := h.formService.Update(ctx, principal.UserID, pathValue(r, "draftID"), req.patch())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(draft, nil))
}

func (h *Handler) NextWizardStep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NextWizardStep")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	draft, err := h.formService.Next(ctx, principal.UserID, pathValue(r, "draftID"))
	if err != nil {
		if draft.ID != "" {
			writeErrorWithData(ctx, w, err, draftToDTO(draft, err))
			return
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(draft, nil))
}

func (h *Handler) BackWizardStep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BackWizardStep")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	draft, err := h.formService.Back(ctx, principal.UserID, pathValue(r, "draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(draft, nil))
}

func (h *Handler) SubmitWizard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitWizard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	draftID := pathValue(r, "draftID")
	item, err := h.formService.Submit(ctx, principal.UserID, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "submit wizard failed", "draft_id", draftID, "user_id", principal.UserID, "error", err)
		if draft, getErr := h.formService.Get(ctx, principal.UserID, draftID); getErr == nil {
			writeErrorWithData(ctx, w, err, draftToDTO(draft, err))
			return
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) DiscardWizard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscardWizard")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.formService.Discard(ctx, principal.UserID, pathValue(r, "draftID")); err != nil {
		writeError(ctx, w, fmt.Errorf("discard wizard: %w", err))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"discarded": true})
}
