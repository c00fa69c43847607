package model

import "testing"

func TestMenuFor(t *testing.T) {
	tests := []struct {
		role     Role
		expected []string
	}{
		{RoleUser, []string{FeatureDashboard, FeatureSubmissions, FeatureMediaVault, FeatureSettings}},
		{RoleAdmin, []string{FeatureDashboard, FeatureSubmissions, FeatureMediaVault, FeatureProjectCreation, FeatureApprovals, FeatureProjects, FeatureSettings}},
		{RoleSuperAdmin, []string{FeatureDashboard, FeatureSubmissions, FeatureMediaVault, FeatureProjectCreation, FeatureApprovals, FeatureProjects, FeatureTeam, FeatureReconciliation, FeatureSettings}},
		{Role("GUEST"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			menu := MenuFor(tt.role)
			if len(menu) != len(tt.expected) {
				t.Fatalf("Expected %d features, got %d", len(tt.expected), len(menu))
			}
			for i, f := range menu {
				if f.Key != tt.expected[i] {
					t.Errorf("Expected feature '%s' at %d, got '%s'", tt.expected[i], i, f.Key)
				}
			}
		})
	}
}

func TestFindFeature(t *testing.T) {
	f, ok := FindFeature(FeatureApprovals)
	if !ok {
		t.Fatal("Expected approvals feature to exist")
	}
	if f.Allows(RoleUser) {
		t.Error("Expected approvals to be closed to USER")
	}
	if !f.Allows(RoleAdmin) {
		t.Error("Expected approvals to be open to ADMIN")
	}

	if _, ok := FindFeature("unknown"); ok {
		t.Error("Expected unknown feature lookup to fail")
	}
}

func TestSameID(t *testing.T) {
	if !SameID("ai1001", "AI1001") {
		t.Error("Expected case-insensitive match")
	}
	if !SameID(" AI1001 ", "ai1001") {
		t.Error("Expected surrounding whitespace to be ignored")
	}
	if SameID("AI1001", "AI1002") {
		t.Error("Expected different ids not to match")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleSuperAdmin.Valid() {
		t.Error("Expected SUPER_ADMIN to be valid")
	}
	if Role("ROOT").Valid() {
		t.Error("Expected ROOT to be invalid")
	}
}
