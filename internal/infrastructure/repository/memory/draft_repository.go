package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/domain/wizard"
)

type DraftRepository struct {
	mu    sync.RWMutex
	items map[string]wizard.Draft
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{items: make(map[string]wizard.Draft)}
}

func (r *DraftRepository) Get(_ context.Context, draftID string) (wizard.Draft, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[draftID]
	if !ok {
		return wizard.Draft{}, false, nil
	}
	return cloneDraft(d), true, nil
}

func (r *DraftRepository) Save(_ context.Context, draft wizard.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.items[draft.ID]; ok {
		draft.CreatedAt = cur.CreatedAt
	}
	r.items[draft.ID] = cloneDraft(draft)
	return nil
}

func (r *DraftRepository) Delete(_ context.Context, draftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, draftID)
	return nil
}

func cloneDraft(d wizard.Draft) wizard.Draft {
	copied := d
	copied.Form.TournamentTeams = append([]string(nil), d.Form.TournamentTeams...)
	copied.Form.Umpires = append([]match.Umpire(nil), d.Form.Umpires...)
	return copied
}
