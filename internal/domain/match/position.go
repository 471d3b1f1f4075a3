package match

import (
	"slices"
	"strconv"
)

var positionNames = map[int]string{
	1:  "Captain",
	2:  "Wicket Keeper",
	3:  "Opening Batter",
	4:  "Opening Batter",
	5:  "Top Order Batter",
	6:  "Middle Order Batter",
	7:  "All-Rounder",
	8:  "All-Rounder",
	9:  "Spin Bowler",
	10: "Fast Bowler",
	11: "Fast Bowler",
}

// PositionName is the display label for a slot. It doubles as the default
// role sent when joining a team.
func PositionName(position int) string {
	if name, ok := positionNames[position]; ok {
		return name
	}
	return "Player " + strconv.Itoa(position)
}

type PositionState string

const (
	PositionAvailable   PositionState = "available"
	PositionOccupied    PositionState = "occupied"
	PositionUnavailable PositionState = "unavailable"
)

type PositionView struct {
	Position     int
	Name         string
	State        PositionState
	OccupantID   string
	OccupantName string
}

func (v PositionView) Selectable() bool {
	return v.State == PositionAvailable
}

// IsFull reports whether the team has no room left.
func (t Team) IsFull() bool {
	if t.MaxPlayers <= 0 {
		return true
	}
	if t.CurrentPlayers >= t.MaxPlayers {
		return true
	}
	return len(t.occupants()) >= t.MaxPlayers
}

// PositionStates renders every slot 1..MaxPlayers. Occupied slots stay
// disabled even when the server also lists them as available, and a full
// team exposes nothing selectable. Out-of-range positions are ignored.
func (t Team) PositionStates() []PositionView {
	if t.MaxPlayers <= 0 {
		return nil
	}

	occupants := t.occupants()
	available := make(map[int]struct{}, len(t.AvailablePositions))
	for _, p := range t.AvailablePositions {
		if p >= 1 && p <= t.MaxPlayers {
			available[p] = struct{}{}
		}
	}
	full := t.IsFull()

	out := make([]PositionView, 0, t.MaxPlayers)
	for p := 1; p <= t.MaxPlayers; p++ {
		view := PositionView{Position: p, Name: PositionName(p), State: PositionUnavailable}
		if occ, ok := occupants[p]; ok {
			view.State = PositionOccupied
			view.OccupantID = occ.UserID
			view.OccupantName = occ.Username
		} else if _, ok := available[p]; ok && !full {
			view.State = PositionAvailable
		}
		out = append(out, view)
	}
	return out
}

// CanSelect reports whether position is rendered available.
func (t Team) CanSelect(position int) bool {
	for _, v := range t.PositionStates() {
		if v.Position == position {
			return v.Selectable()
		}
	}
	return false
}

// WithJoined returns a copy of t with userID placed at position, used when
// the caller trusts a successful join instead of refetching.
func (t Team) WithJoined(p Participant) Team {
	out := t
	out.Participants = append(slices.Clone(t.Participants), p)
	out.AvailablePositions = slices.DeleteFunc(slices.Clone(t.AvailablePositions), func(v int) bool {
		return v == p.Position
	})
	out.CurrentPlayers = t.CurrentPlayers + 1
	return out
}

// occupants keeps the first participant seen per in-range position.
func (t Team) occupants() map[int]Participant {
	out := make(map[int]Participant, len(t.Participants))
	for _, p := range t.Participants {
		if p.Position < 1 || p.Position > t.MaxPlayers {
			continue
		}
		if _, dup := out[p.Position]; dup {
			continue
		}
		out[p.Position] = p
	}
	return out
}
