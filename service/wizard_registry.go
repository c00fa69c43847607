package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/wizard"
	"github.com/google/uuid"
)

type draft struct {
	mu        sync.Mutex
	id        string
	owner     string
	state     wizard.State
	updatedAt time.Time
}

// WizardRegistry holds in-progress project drafts, one per id, each owned by
// the employee who started it. Drafts idle for longer than the TTL are
// dropped on the next access.
type WizardRegistry struct {
	mu     sync.Mutex
	drafts map[string]*draft
	ttl    time.Duration
	now    func() time.Time
}

func NewWizardRegistry(ttl time.Duration) *WizardRegistry {
	return &WizardRegistry{
		drafts: make(map[string]*draft),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Start opens a fresh draft for owner
func (r *WizardRegistry) Start(owner string) (string, wizard.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	d := &draft{
		id:        uuid.NewString(),
		owner:     owner,
		state:     wizard.New(),
		updatedAt: r.now(),
	}
	r.drafts[d.id] = d
	return d.id, d.state
}

func (r *WizardRegistry) lookup(owner, id string) (*draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	d, ok := r.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	if !model.SameID(d.owner, owner) {
		return nil, fmt.Errorf("draft %s: %w", id, ErrForbidden)
	}
	return d, nil
}

func (r *WizardRegistry) Get(owner, id string) (wizard.State, error) {
	d, err := r.lookup(owner, id)
	if err != nil {
		return wizard.State{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, nil
}

// Update applies fn to the draft under its lock and stores whatever state fn
// returns, so a failed operation keeps the state fn handed back.
func (r *WizardRegistry) Update(ctx context.Context, owner, id string, fn func(context.Context, wizard.State) (wizard.State, error)) (wizard.State, error) {
	d, err := r.lookup(owner, id)
	if err != nil {
		return wizard.State{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next, err := fn(ctx, d.state)
	d.state = next
	d.updatedAt = r.now()
	return next, err
}

func (r *WizardRegistry) Discard(owner, id string) error {
	if _, err := r.lookup(owner, id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

func (r *WizardRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// sweepLocked drops expired drafts. Must be called with r.mu held
func (r *WizardRegistry) sweepLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, d := range r.drafts {
		if d.mu.TryLock() {
			expired := d.updatedAt.Before(cutoff)
			d.mu.Unlock()
			if expired {
				slog.Debug("dropping expired wizard draft", "draft_id", id, "owner", d.owner)
				delete(r.drafts, id)
			}
		}
	}
}
