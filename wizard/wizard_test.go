package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/aaraaapps/aaraa.app/model"
)

type fakeCreator struct {
	projects []*model.Project
	err      error
}

func (f *fakeCreator) CreateProject(_ context.Context, p *model.Project) error {
	if f.err != nil {
		return f.err
	}
	p.ID = "p-1"
	f.projects = append(f.projects, p)
	return nil
}

type fakeCatalog struct {
	items []model.BOQItem
	err   error
}

func (f *fakeCatalog) CreateBOQItem(_ context.Context, name, unit string) (model.BOQItem, error) {
	if f.err != nil {
		return model.BOQItem{}, f.err
	}
	item := model.BOQItem{ID: "new-1", ItemName: name, Unit: unit}
	f.items = append(f.items, item)
	return item, nil
}

func advance(s State, to Step) State {
	for s.Step() < to {
		s = s.Continue()
	}
	return s
}

func mustEdit(t *testing.T, s State, name, value string) State {
	t.Helper()
	next, err := s.Edit(name, value)
	if err != nil {
		t.Fatalf("Edit(%s) failed: %v", name, err)
	}
	return next
}

func TestNewDefaults(t *testing.T) {
	s := New()

	if s.Step() != StepIdentity {
		t.Errorf("Expected step %d, got %d", StepIdentity, s.Step())
	}
	fields := map[string]string{
		"project_code":            "AI",
		"project_type":            "Residential",
		"project_category":        "Turnkey",
		"project_status":          "Planned",
		"contract_type":           "BOQ Based",
		"defect_liability_period": "12",
		"retention_percentage":    "5",
		"payment_terms":           "RA",
		"boq_version":             "V1.0",
		"project_visibility":      "Assigned Team",
		"approval_flow":           "Standard",
	}
	for name, want := range fields {
		if got := s.Field(name); got != want {
			t.Errorf("Expected %s '%s', got '%s'", name, want, got)
		}
	}
	for _, flag := range []string{"gst_applicable", "boq_attached", "notifications_enabled"} {
		if !s.Flag(flag) {
			t.Errorf("Expected %s to default true", flag)
		}
	}
}

func TestContinueAndBackBounds(t *testing.T) {
	s := New()

	if s.Back().Step() != StepIdentity {
		t.Error("Expected Back on step 1 to be a no-op")
	}

	for want := StepClientLocation; want <= StepReviewConfirm; want++ {
		s = s.Continue()
		if s.Step() != want {
			t.Fatalf("Expected step %d, got %d", want, s.Step())
		}
	}

	if s.Continue().Step() != StepReviewConfirm {
		t.Error("Expected Continue on step 6 to be a no-op")
	}
	if s.Back().Step() != StepBOQScope {
		t.Errorf("Expected Back to step 5, got %d", s.Back().Step())
	}
}

func TestContinueDoesNotValidate(t *testing.T) {
	s := mustEdit(t, New(), "project_code", "")
	s = s.Continue()
	if s.Step() != StepClientLocation {
		t.Errorf("Expected to advance with an empty code, got step %d", s.Step())
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	s := New()
	edited := mustEdit(t, s, "project_name", "Tower 4")
	moved := s.Continue()

	if s.Field("project_name") != "" {
		t.Error("Expected original state to keep an empty name")
	}
	if edited.Field("project_name") != "Tower 4" {
		t.Errorf("Expected edited name 'Tower 4', got '%s'", edited.Field("project_name"))
	}
	if s.Step() != StepIdentity || moved.Step() != StepClientLocation {
		t.Errorf("Expected steps 1 and 2, got %d and %d", s.Step(), moved.Step())
	}
}

func TestEditUnknownField(t *testing.T) {
	s := New()
	if _, err := s.Edit("favourite_colour", "red"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if _, err := s.Edit("gst_applicable", "false"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected flags to be rejected by Edit, got %v", err)
	}
	if _, err := s.SetFlag("project_name", true); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected text fields to be rejected by SetFlag, got %v", err)
	}
}

func TestSetFlag(t *testing.T) {
	s, err := New().SetFlag("gst_applicable", false)
	if err != nil {
		t.Fatalf("SetFlag failed: %v", err)
	}
	if s.Flag("gst_applicable") {
		t.Error("Expected gst_applicable to be false")
	}
}

func TestAddItemOnlyOnScopeStep(t *testing.T) {
	item := model.BOQItem{ID: "b1", ItemName: "Excavation", Unit: "Cum"}

	if _, err := New().AddItem(item); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep on step 1, got %v", err)
	}
	if _, err := New().RemoveItem("b1"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep on step 1, got %v", err)
	}
}

func TestAddItemIsIdempotent(t *testing.T) {
	s := advance(New(), StepBOQScope)
	item := model.BOQItem{ID: "b1", ItemName: "Excavation", Unit: "Cum"}

	s, _ = s.AddItem(item)
	s, _ = s.AddItem(item)

	scope := s.Scope()
	if len(scope) != 1 {
		t.Fatalf("Expected 1 scope item, got %d", len(scope))
	}
	if scope[0].Quantity != 0 || scope[0].Rate != 0 {
		t.Errorf("Expected zero quantity and rate, got %v and %v", scope[0].Quantity, scope[0].Rate)
	}
	if scope[0].ItemName != "Excavation" || scope[0].Unit != "Cum" {
		t.Errorf("Expected copied item, got %+v", scope[0])
	}
}

func TestRemoveItem(t *testing.T) {
	s := advance(New(), StepBOQScope)
	s, _ = s.AddItem(model.BOQItem{ID: "b1", ItemName: "Excavation", Unit: "Cum"})
	s, _ = s.AddItem(model.BOQItem{ID: "b2", ItemName: "PCC", Unit: "Cum"})

	same, err := s.RemoveItem("missing")
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(same.Scope()) != 2 {
		t.Errorf("Expected absent id to be a no-op, got %d items", len(same.Scope()))
	}

	removed, _ := s.RemoveItem("b1")
	scope := removed.Scope()
	if len(scope) != 1 || scope[0].ID != "b2" {
		t.Errorf("Expected only b2 to remain, got %+v", scope)
	}
	if len(s.Scope()) != 2 {
		t.Error("Expected receiver scope to be unchanged")
	}
}

func TestCreateAndAdd(t *testing.T) {
	catalog := &fakeCatalog{}
	s := advance(New(), StepBOQScope)

	s, item, err := s.CreateAndAdd(context.Background(), catalog, "Shuttering", "Sqm")
	if err != nil {
		t.Fatalf("CreateAndAdd failed: %v", err)
	}
	if len(catalog.items) != 1 {
		t.Errorf("Expected master item to be created, got %d", len(catalog.items))
	}
	if item.ID != "new-1" {
		t.Errorf("Expected item id 'new-1', got '%s'", item.ID)
	}
	if len(s.Scope()) != 1 || s.Scope()[0].ID != "new-1" {
		t.Errorf("Expected new item in scope, got %+v", s.Scope())
	}
}

func TestCreateAndAddCatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("db down")}
	s := advance(New(), StepBOQScope)

	next, _, err := s.CreateAndAdd(context.Background(), catalog, "Shuttering", "Sqm")
	if err == nil {
		t.Fatal("Expected error")
	}
	if len(next.Scope()) != 0 {
		t.Error("Expected scope to stay empty")
	}
}

func TestSubmitValid(t *testing.T) {
	creator := &fakeCreator{}
	s := mustEdit(t, New(), "project_code", "AI-2024-001")
	s = mustEdit(t, s, "project_name", "Tower 4")
	s = advance(s, StepBOQScope)
	s, _ = s.AddItem(model.BOQItem{ID: "b1", ItemName: "Excavation", Unit: "Cum"})
	s = s.Continue()

	done, p, err := s.Submit(context.Background(), creator, "AI1002")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if done.Step() != Submitted {
		t.Errorf("Expected Submitted, got %d", done.Step())
	}
	if done.Code() != "AI-2024-001" {
		t.Errorf("Expected code 'AI-2024-001', got '%s'", done.Code())
	}
	if p.CreatedBy != "AI1002" {
		t.Errorf("Expected created_by 'AI1002', got '%s'", p.CreatedBy)
	}
	if len(p.BOQ) != 1 {
		t.Errorf("Expected 1 scope item, got %d", len(p.BOQ))
	}
	if p.DefectLiabilityPeriod != 12 || p.RetentionPercentage != 5 {
		t.Errorf("Expected defaults 12 and 5, got %d and %v", p.DefectLiabilityPeriod, p.RetentionPercentage)
	}
	if len(creator.projects) != 1 {
		t.Errorf("Expected 1 persisted project, got %d", len(creator.projects))
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		project string
		message string
	}{
		{"missing name", "AI-1", "", "Project Code and Name are mandatory."},
		{"missing code", "", "Tower", "Project Code and Name are mandatory."},
		{"blank code", "   ", "Tower", "Project Code and Name are mandatory."},
		{"bad prefix", "XY-1", "Tower", "Project Code must start with 'AI'."},
		{"lowercase prefix", "ai-1", "Tower", "Project Code must start with 'AI'."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{}
			s := mustEdit(t, New(), "project_code", tt.code)
			s = mustEdit(t, s, "project_name", tt.project)
			s = advance(s, StepReviewConfirm)

			next, p, err := s.Submit(context.Background(), creator, "AI1002")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Message != tt.message {
				t.Errorf("Expected '%s', got '%s'", tt.message, verr.Message)
			}
			if p != nil || len(creator.projects) != 0 {
				t.Error("Expected nothing persisted")
			}
			if next.Step() != StepReviewConfirm {
				t.Errorf("Expected to stay on step 6, got %d", next.Step())
			}
			if next.Field("project_name") != tt.project {
				t.Error("Expected fields to be preserved")
			}
		})
	}
}

func TestSubmitPrefixOnly(t *testing.T) {
	s := mustEdit(t, New(), "project_name", "Tower")
	s = advance(s, StepReviewConfirm)

	done, _, err := s.Submit(context.Background(), &fakeCreator{}, "AI1002")
	if err != nil {
		t.Fatalf("Expected bare prefix to be accepted, got %v", err)
	}
	if done.Code() != "AI" {
		t.Errorf("Expected code 'AI', got '%s'", done.Code())
	}
}

func TestSubmitCreatorFailure(t *testing.T) {
	creator := &fakeCreator{err: errors.New("duplicate key")}
	s := mustEdit(t, New(), "project_code", "AI-7")
	s = mustEdit(t, s, "project_name", "Metro")
	s = advance(s, StepReviewConfirm)

	next, _, err := s.Submit(context.Background(), creator, "AI1002")
	if err == nil {
		t.Fatal("Expected error")
	}
	if next.Step() != StepReviewConfirm || next.Field("project_code") != "AI-7" {
		t.Error("Expected state unchanged after failed submit")
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	s := mustEdit(t, New(), "project_name", "Tower")
	if _, _, err := s.Submit(context.Background(), &fakeCreator{}, "AI1002"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
}

func TestSubmittedIsTerminal(t *testing.T) {
	s := mustEdit(t, New(), "project_name", "Tower")
	s = advance(s, StepReviewConfirm)
	done, _, _ := s.Submit(context.Background(), &fakeCreator{}, "AI1002")

	if done.Continue().Step() != Submitted || done.Back().Step() != Submitted {
		t.Error("Expected Continue and Back to be no-ops after submit")
	}
	if _, err := done.Edit("project_name", "x"); !errors.Is(err, ErrSubmitted) {
		t.Errorf("Expected ErrSubmitted, got %v", err)
	}
	if _, _, err := done.Submit(context.Background(), &fakeCreator{}, "AI1002"); !errors.Is(err, ErrSubmitted) {
		t.Errorf("Expected ErrSubmitted, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	s := mustEdit(t, New(), "project_name", "Tower")
	snap := s.Snapshot()

	if snap.Step != StepIdentity || snap.StepTitle != "Project Identity" {
		t.Errorf("Unexpected step in snapshot: %d %s", snap.Step, snap.StepTitle)
	}
	snap.Fields["project_name"] = "changed"
	if s.Field("project_name") != "Tower" {
		t.Error("Expected snapshot maps to be copies")
	}
}
