package httpapi

import (
	"errors"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/notification"
	"github.com/riskibarqy/cricket-hub/internal/domain/profile"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

type participantDTO struct {
	UserID   string `json:"user_id"`
	Position int    `json:"position"`
	Role     string `json:"role,omitempty"`
	Username string `json:"username,omitempty"`
}

type teamDTO struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	CurrentPlayers     int              `json:"current_players"`
	MaxPlayers         int              `json:"max_players"`
	AvailablePositions []int            `json:"available_positions"`
	Participants       []participantDTO `json:"participants"`
}

type umpireDTO struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name" validate:"required,max=100"`
	Role   string `json:"role,omitempty" validate:"omitempty,max=50"`
}

type matchDTO struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	MatchType        string      `json:"match_type"`
	Description      string      `json:"description,omitempty"`
	Date             string      `json:"date"`
	Time             string      `json:"time"`
	Location         string      `json:"location"`
	Status           string      `json:"status"`
	PlayersNeeded    int         `json:"players_needed"`
	EntryFee         float64     `json:"entry_fee"`
	CreatorID        string      `json:"creator_id"`
	CreatorName      string      `json:"creator_name,omitempty"`
	CanJoin          bool        `json:"can_join"`
	IsParticipant    bool        `json:"is_participant"`
	ParticipantCount int         `json:"participant_count"`
	Teams            []teamDTO   `json:"teams,omitempty"`
	Umpires          []umpireDTO `json:"umpires,omitempty"`
}

type matchViewDTO struct {
	matchDTO
	IsLive    bool      `json:"is_live"`
	IsCreator bool      `json:"is_creator"`
	Roster    []teamDTO `json:"roster,omitempty"`
}

type matchListDTO struct {
	Matches   []matchViewDTO `json:"matches"`
	Status    string         `json:"status,omitempty"`
	MatchType string         `json:"match_type,omitempty"`
	Page      int            `json:"page"`
	PerPage   int            `json:"per_page"`
	FetchedAt time.Time      `json:"fetched_at"`
}

type positionDTO struct {
	Position     int    `json:"position"`
	Name         string `json:"name"`
	State        string `json:"state"`
	Selectable   bool   `json:"selectable"`
	OccupantID   string `json:"occupant_id,omitempty"`
	OccupantName string `json:"occupant_name,omitempty"`
}

type selectorTeamDTO struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CurrentPlayers int           `json:"current_players"`
	MaxPlayers     int           `json:"max_players"`
	Full           bool          `json:"full"`
	Positions      []positionDTO `json:"positions"`
}

type selectionDTO struct {
	TeamID       string `json:"team_id"`
	Position     int    `json:"position"`
	PositionName string `json:"position_name"`
}

type selectorDTO struct {
	MatchID      string            `json:"match_id"`
	Teams        []selectorTeamDTO `json:"teams"`
	Selected     *selectionDTO     `json:"selected,omitempty"`
	Empty        bool              `json:"empty"`
	EmptyMessage string            `json:"empty_message,omitempty"`
	RefreshedAt  time.Time         `json:"refreshed_at"`
}

type wizardFormDTO struct {
	Title           string      `json:"title"`
	MatchType       string      `json:"match_type"`
	Description     string      `json:"description"`
	Location        string      `json:"location"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	PlayersNeeded   int         `json:"players_needed"`
	EntryFee        float64     `json:"entry_fee"`
	Team1Name       string      `json:"team1_name"`
	Team2Name       string      `json:"team2_name"`
	TournamentTeams []string    `json:"tournament_teams"`
	Umpires         []umpireDTO `json:"umpires"`
}

type violationDTO struct {
	Step    string `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type draftDTO struct {
	ID        string        `json:"id"`
	Mode      string        `json:"mode"`
	MatchID   string        `json:"match_id,omitempty"`
	Step      string        `json:"step"`
	StepIndex int           `json:"step_index"`
	Steps     []string      `json:"steps"`
	Form      wizardFormDTO `json:"form"`
	LastError string        `json:"last_error,omitempty"`
	Violation *violationDTO `json:"violation,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type profileDTO struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	LoadedAt    time.Time `json:"loaded_at"`
}

type connectivityDTO struct {
	API           usecase.ProbeResult  `json:"api"`
	Authenticated *usecase.ProbeResult `json:"authenticated,omitempty"`
}

func teamToDTO(t match.Team) teamDTO {
	participants := make([]participantDTO, 0, len(t.Participants))
	for _, p := range t.Participants {
		participants = append(participants, participantDTO{
			UserID:   p.UserID,
			Position: p.Position,
			Role:     p.Role,
			Username: p.Username,
		})
	}
	available := t.AvailablePositions
	if available == nil {
		available = []int{}
	}
	return teamDTO{
		ID:                 t.ID,
		Name:               t.Name,
		CurrentPlayers:     t.CurrentPlayers,
		MaxPlayers:         t.MaxPlayers,
		AvailablePositions: available,
		Participants:       participants,
	}
}

func teamsToDTO(teams []match.Team) []teamDTO {
	if teams == nil {
		return nil
	}
	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamToDTO(t))
	}
	return out
}

func umpiresToDTO(umpires []match.Umpire) []umpireDTO {
	out := make([]umpireDTO, 0, len(umpires))
	for _, u := range umpires {
		out = append(out, umpireDTO{UserID: u.UserID, Name: u.Name, Role: u.Role})
	}
	return out
}

func umpiresFromDTO(items []umpireDTO) []match.Umpire {
	out := make([]match.Umpire, 0, len(items))
	for _, u := range items {
		out = append(out, match.Umpire{UserID: u.UserID, Name: u.Name, Role: u.Role})
	}
	return out
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:               m.ID,
		Title:            m.Title,
		MatchType:        string(m.Type),
		Description:      m.Description,
		Date:             m.Date,
		Time:             m.Time,
		Location:         m.Location,
		Status:           string(m.Status),
		PlayersNeeded:    m.PlayersNeeded,
		EntryFee:         m.EntryFee,
		CreatorID:        m.CreatorID,
		CreatorName:      m.CreatorName,
		CanJoin:          m.CanJoin,
		IsParticipant:    m.IsParticipant,
		ParticipantCount: m.ParticipantCount,
		Teams:            teamsToDTO(m.Teams),
		Umpires:          umpiresToDTO(m.Umpires),
	}
}

func matchListToDTO(view usecase.MatchListView) matchListDTO {
	items := make([]matchViewDTO, 0, len(view.Matches))
	for _, m := range view.Matches {
		items = append(items, matchViewDTO{
			matchDTO:  matchToDTO(m.Match),
			IsLive:    m.IsLive,
			IsCreator: m.IsCreator,
			Roster:    teamsToDTO(m.Roster),
		})
	}
	return matchListDTO{
		Matches:   items,
		Status:    string(view.Filter.Status),
		MatchType: string(view.Filter.Type),
		Page:      view.Filter.Page,
		PerPage:   view.Filter.PerPage,
		FetchedAt: view.FetchedAt,
	}
}

func selectorToDTO(view usecase.SelectorView) selectorDTO {
	teams := make([]selectorTeamDTO, 0, len(view.Teams))
	for _, t := range view.Teams {
		positions := make([]positionDTO, 0, len(t.Positions))
		for _, p := range t.Positions {
			positions = append(positions, positionDTO{
				Position:     p.Position,
				Name:         p.Name,
				State:        string(p.State),
				Selectable:   p.Selectable(),
				OccupantID:   p.OccupantID,
				OccupantName: p.OccupantName,
			})
		}
		teams = append(teams, selectorTeamDTO{
			ID:             t.ID,
			Name:           t.Name,
			CurrentPlayers: t.CurrentPlayers,
			MaxPlayers:     t.MaxPlayers,
			Full:           t.Full,
			Positions:      positions,
		})
	}

	out := selectorDTO{
		MatchID:      view.MatchID,
		Teams:        teams,
		Empty:        view.Empty,
		EmptyMessage: view.EmptyMessage,
		RefreshedAt:  view.RefreshedAt,
	}
	if view.Selected != nil {
		out.Selected = &selectionDTO{
			TeamID:       view.Selected.TeamID,
			Position:     view.Selected.Position,
			PositionName: match.PositionName(view.Selected.Position),
		}
	}
	return out
}

func draftToDTO(d wizard.Draft, err error) draftDTO {
	steps := wizard.Steps()
	names := make([]string, 0, len(steps))
	index := 0
	for i, s := range steps {
		names = append(names, string(s))
		if s == d.Step {
			index = i
		}
	}
	teams := d.Form.TournamentTeams
	if teams == nil {
		teams = []string{}
	}

	out := draftDTO{
		ID:        d.ID,
		Mode:      string(d.Mode),
		MatchID:   d.MatchID,
		Step:      string(d.Step),
		StepIndex: index,
		Steps:     names,
		Form: wizardFormDTO{
			Title:           d.Form.Title,
			MatchType:       string(d.Form.Type),
			Description:     d.Form.Description,
			Location:        d.Form.Location,
			Date:            d.Form.Date,
			Time:            d.Form.Time,
			PlayersNeeded:   d.Form.PlayersNeeded,
			EntryFee:        d.Form.EntryFee,
			Team1Name:       d.Form.Team1Name,
			Team2Name:       d.Form.Team2Name,
			TournamentTeams: teams,
			Umpires:         umpiresToDTO(d.Form.Umpires),
		},
		LastError: d.LastError,
		UpdatedAt: d.UpdatedAt,
	}

	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		out.Violation = &violationDTO{Step: string(verr.Step), Field: verr.Field, Message: verr.Message}
	}
	return out
}

func notificationToDTO(n notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Message:   n.Message,
		Source:    n.Source,
		CreatedAt: n.CreatedAt,
	}
}

func notificationsToDTO(items []notification.Notification) []notificationDTO {
	out := make([]notificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, notificationToDTO(n))
	}
	return out
}

func profileToDTO(p profile.Profile) profileDTO {
	return profileDTO{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		AvatarURL:   p.AvatarURL,
		LoadedAt:    p.LoadedAt,
	}
}
