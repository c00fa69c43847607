package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/google/uuid"
)

// EmployeeDirectory resolves employees from the profile master table
type EmployeeDirectory interface {
	FindEmployee(ctx context.Context, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
}

// SubmissionFilter narrows a submission listing. Zero values match everything.
type SubmissionFilter struct {
	EmployeeID string
	Department string
	Statuses   []model.SubmissionStatus
}

func (f SubmissionFilter) matches(s *model.Submission) bool {
	if f.EmployeeID != "" && !model.SameID(s.EmployeeID, f.EmployeeID) {
		return false
	}
	if f.Department != "" && s.Department != f.Department {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if s.Status == st {
			return true
		}
	}
	return false
}

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *model.Submission) error
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]*model.Submission, error)
	// TransitionSubmission moves a submission to status to, failing with
	// ErrInvalidTransition when its current status does not allow it.
	TransitionSubmission(ctx context.Context, id string, to model.SubmissionStatus, reason, decidedBy string) (*model.Submission, error)
}

type CatalogRepository interface {
	ListBOQItems(ctx context.Context) ([]model.BOQItem, error)
	CreateBOQItem(ctx context.Context, name, unit string) (model.BOQItem, error)
	ListUnits(ctx context.Context) ([]model.BOQUnit, error)
	CreateUnit(ctx context.Context, name string) (model.BOQUnit, error)
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, p *model.Project) error
	ListProjects(ctx context.Context) ([]*model.Project, error)
}

// Store is the hosted database as seen by the application
type Store interface {
	EmployeeDirectory
	SubmissionRepository
	CatalogRepository
	ProjectRepository
	Close()
}

// MemoryStore is an in-memory Store used when no database is configured
type MemoryStore struct {
	mu             sync.RWMutex
	employees      []model.Employee
	submissions    map[string]*model.Submission
	boqItems       []model.BOQItem
	units          []model.BOQUnit
	projects       []*model.Project
	maxSubmissions int // 0 = unlimited
	now            func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store from the configured employee master
func NewMemoryStore(employees []model.Employee, cfg *config.StoreConfig) *MemoryStore {
	s := &MemoryStore{
		employees:      append([]model.Employee(nil), employees...),
		submissions:    make(map[string]*model.Submission),
		maxSubmissions: cfg.MaxSubmissions,
		now:            time.Now,
	}
	if cfg.SeedApprovals {
		for _, sub := range model.MockApprovalQueue(s.now()) {
			sub.UpdatedAt = sub.CreatedAt
			s.submissions[sub.ID] = sub
		}
	}
	slog.Info("memory store initialized",
		"employees", len(s.employees),
		"max_submissions", s.maxSubmissions,
		"seeded", cfg.SeedApprovals,
	)
	return s
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) FindEmployee(_ context.Context, id string) (*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.employees {
		if model.SameID(s.employees[i].ID, id) {
			e := s.employees[i]
			return &e, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (s *MemoryStore) ListEmployees(_ context.Context) ([]model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Employee(nil), s.employees...), nil
}

func (s *MemoryStore) CreateSubmission(_ context.Context, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if _, exists := s.submissions[sub.ID]; exists {
		return fmt.Errorf("submission %s: %w", sub.ID, ErrDuplicate)
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}
	sub.UpdatedAt = sub.CreatedAt

	cp := *sub
	s.submissions[sub.ID] = &cp
	s.cleanupIfNeeded()
	return nil
}

func (s *MemoryStore) GetSubmission(_ context.Context, id string) (*model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

// ListSubmissions returns matching submissions, newest first
func (s *MemoryStore) ListSubmissions(_ context.Context, f SubmissionFilter) ([]*model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Submission, 0)
	for _, sub := range s.submissions {
		if f.matches(sub) {
			cp := *sub
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) TransitionSubmission(_ context.Context, id string, to model.SubmissionStatus, reason, decidedBy string) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !sub.Status.CanTransition(to) {
		return nil, fmt.Errorf("%s %s -> %s: %w", id, sub.Status, to, ErrInvalidTransition)
	}
	sub.Status = to
	sub.Reason = reason
	sub.DecidedBy = decidedBy
	sub.UpdatedAt = s.now()

	cp := *sub
	return &cp, nil
}

// RetentionCapped reports whether old submissions are evicted
func (s *MemoryStore) RetentionCapped() bool {
	return s.maxSubmissions > 0
}

// cleanupIfNeeded drops the oldest submissions beyond maxSubmissions.
// Must be called with lock held
func (s *MemoryStore) cleanupIfNeeded() {
	if s.maxSubmissions <= 0 || len(s.submissions) <= s.maxSubmissions {
		return
	}

	subs := make([]*model.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})

	for _, sub := range subs[:len(subs)-s.maxSubmissions] {
		slog.Info("evicting old submission",
			"submission_id", sub.ID,
			"created_at", sub.CreatedAt,
		)
		delete(s.submissions, sub.ID)
	}
}

func (s *MemoryStore) ListBOQItems(_ context.Context) ([]model.BOQItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := append([]model.BOQItem(nil), s.boqItems...)
	sort.Slice(items, func(i, j int) bool { return items[i].ItemName < items[j].ItemName })
	return items, nil
}

func (s *MemoryStore) CreateBOQItem(_ context.Context, name, unit string) (model.BOQItem, error) {
	name, unit = strings.TrimSpace(name), strings.TrimSpace(unit)
	if name == "" || unit == "" {
		return model.BOQItem{}, fmt.Errorf("item name and unit are required: %w", ErrInvalidSubmission)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item := model.BOQItem{ID: uuid.NewString(), ItemName: name, Unit: unit}
	s.boqItems = append(s.boqItems, item)
	return item, nil
}

func (s *MemoryStore) ListUnits(_ context.Context) ([]model.BOQUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := append([]model.BOQUnit(nil), s.units...)
	sort.Slice(units, func(i, j int) bool { return units[i].UnitName < units[j].UnitName })
	return units, nil
}

func (s *MemoryStore) CreateUnit(_ context.Context, name string) (model.BOQUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.BOQUnit{}, fmt.Errorf("unit name is required: %w", ErrInvalidSubmission)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if strings.EqualFold(u.UnitName, name) {
			return model.BOQUnit{}, fmt.Errorf("unit %q: %w", name, ErrDuplicate)
		}
	}
	unit := model.BOQUnit{ID: uuid.NewString(), UnitName: name}
	s.units = append(s.units, unit)
	return unit, nil
}

func (s *MemoryStore) CreateProject(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing.ProjectCode == p.ProjectCode {
			return fmt.Errorf("project %s: %w", p.ProjectCode, ErrDuplicate)
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	cp := *p
	cp.BOQ = append([]model.ScopeItem(nil), p.BOQ...)
	s.projects = append(s.projects, &cp)
	return nil
}

// ListProjects returns projects newest first
func (s *MemoryStore) ListProjects(_ context.Context) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Project, 0, len(s.projects))
	for i := len(s.projects) - 1; i >= 0; i-- {
		cp := *s.projects[i]
		result = append(result, &cp)
	}
	return result, nil
}

// Count returns the number of submissions held
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}
