// Package wizard implements the six-step project creation form as an
// immutable state machine. Every operation returns a new State and leaves
// the receiver untouched.
package wizard

import (
	"context"
	"fmt"

	"github.com/aaraaapps/aaraa.app/model"
)

// Step is a page of the wizard
type Step int

const (
	StepIdentity Step = iota + 1
	StepClientLocation
	StepTeamTimeline
	StepFinancials
	StepBOQScope
	StepReviewConfirm
	Submitted
)

var stepTitles = map[Step]string{
	StepIdentity:       "Project Identity",
	StepClientLocation: "Client & Location",
	StepTeamTimeline:   "Team & Timeline",
	StepFinancials:     "Financials & Compliance",
	StepBOQScope:       "BOQ Scope",
	StepReviewConfirm:  "Review & Confirm",
	Submitted:          "Submitted",
}

func (s Step) String() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Catalog persists new master BOQ items
type Catalog interface {
	CreateBOQItem(ctx context.Context, name, unit string) (model.BOQItem, error)
}

// Creator persists a finished project
type Creator interface {
	CreateProject(ctx context.Context, p *model.Project) error
}

type State struct {
	step  Step
	text  map[string]string
	flags map[string]bool
	scope []model.ScopeItem
	code  string
}

// New returns a form on step 1 populated with defaults
func New() State {
	s := State{
		step:  StepIdentity,
		text:  make(map[string]string, len(textDefaults)),
		flags: make(map[string]bool, len(flagDefaults)),
	}
	for k, v := range textDefaults {
		s.text[k] = v
	}
	for k, v := range flagDefaults {
		s.flags[k] = v
	}
	return s
}

func (s State) clone() State {
	c := State{
		step:  s.step,
		text:  make(map[string]string, len(s.text)),
		flags: make(map[string]bool, len(s.flags)),
		scope: append([]model.ScopeItem(nil), s.scope...),
		code:  s.code,
	}
	for k, v := range s.text {
		c.text[k] = v
	}
	for k, v := range s.flags {
		c.flags[k] = v
	}
	return c
}

func (s State) Step() Step               { return s.step }
func (s State) Field(name string) string { return s.text[name] }
func (s State) Flag(name string) bool    { return s.flags[name] }

// Code is the project code recorded on a successful submit
func (s State) Code() string { return s.code }

func (s State) Scope() []model.ScopeItem {
	return append([]model.ScopeItem{}, s.scope...)
}

// Continue advances one step. It does not validate.
func (s State) Continue() State {
	if s.step >= StepReviewConfirm {
		return s
	}
	c := s.clone()
	c.step++
	return c
}

func (s State) Back() State {
	if s.step <= StepIdentity || s.step == Submitted {
		return s
	}
	c := s.clone()
	c.step--
	return c
}

// Edit sets a text field to the raw value typed by the user
func (s State) Edit(name, value string) (State, error) {
	if s.step == Submitted {
		return s, ErrSubmitted
	}
	if !IsTextField(name) {
		return s, fmt.Errorf("%q: %w", name, ErrUnknownField)
	}
	c := s.clone()
	c.text[name] = value
	return c, nil
}

func (s State) SetFlag(name string, value bool) (State, error) {
	if s.step == Submitted {
		return s, ErrSubmitted
	}
	if !IsFlagField(name) {
		return s, fmt.Errorf("%q: %w", name, ErrUnknownField)
	}
	c := s.clone()
	c.flags[name] = value
	return c, nil
}

// AddItem copies item into the scope with zero quantity and rate.
// Adding an item already in scope changes nothing.
func (s State) AddItem(item model.BOQItem) (State, error) {
	if s.step != StepBOQScope {
		return s, ErrWrongStep
	}
	for _, it := range s.scope {
		if it.ID == item.ID {
			return s, nil
		}
	}
	c := s.clone()
	c.scope = append(c.scope, model.NewScopeItem(item))
	return c, nil
}

// RemoveItem drops the scope item with id; an absent id is a no-op
func (s State) RemoveItem(id string) (State, error) {
	if s.step != StepBOQScope {
		return s, ErrWrongStep
	}
	c := s.clone()
	c.scope = c.scope[:0]
	for _, it := range s.scope {
		if it.ID != id {
			c.scope = append(c.scope, it)
		}
	}
	return c, nil
}

// CreateAndAdd stores a new master item and then adds it to the scope.
// If the add cannot happen the master item still exists.
func (s State) CreateAndAdd(ctx context.Context, catalog Catalog, name, unit string) (State, model.BOQItem, error) {
	if s.step != StepBOQScope {
		return s, model.BOQItem{}, ErrWrongStep
	}
	item, err := catalog.CreateBOQItem(ctx, name, unit)
	if err != nil {
		return s, model.BOQItem{}, fmt.Errorf("create boq item: %w", err)
	}
	next, err := s.AddItem(item)
	return next, item, err
}

// Submit validates the form and persists it through creator. On failure
// the returned state is s, still on the review step with every field kept.
func (s State) Submit(ctx context.Context, creator Creator, employeeID string) (State, *model.Project, error) {
	if s.step == Submitted {
		return s, nil, ErrSubmitted
	}
	if s.step != StepReviewConfirm {
		return s, nil, ErrWrongStep
	}
	if err := s.validate(); err != nil {
		return s, nil, err
	}

	p := s.project(employeeID)
	if err := creator.CreateProject(ctx, p); err != nil {
		return s, nil, err
	}

	c := s.clone()
	c.step = Submitted
	c.code = p.ProjectCode
	return c, p, nil
}

// Snapshot is the JSON view of a State
type Snapshot struct {
	Step      Step              `json:"step"`
	StepTitle string            `json:"step_title"`
	Submitted bool              `json:"submitted"`
	Fields    map[string]string `json:"fields"`
	Flags     map[string]bool   `json:"flags"`
	BOQItems  []model.ScopeItem `json:"boq_items"`
	Code      string            `json:"project_code,omitempty"`
}

func (s State) Snapshot() Snapshot {
	c := s.clone()
	return Snapshot{
		Step:      c.step,
		StepTitle: c.step.String(),
		Submitted: c.step == Submitted,
		Fields:    c.text,
		Flags:     c.flags,
		BOQItems:  s.Scope(),
		Code:      c.code,
	}
}
