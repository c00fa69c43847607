package model

// Feature is a navigable part of the application gated by role
type Feature struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
	Roles []Role `json:"-"`
}

// Allows reports whether role may reach the feature
func (f Feature) Allows(role Role) bool {
	for _, r := range f.Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	FeatureDashboard       = "dashboard"
	FeatureSubmissions     = "submissions"
	FeatureMediaVault      = "media-vault"
	FeatureProjectCreation = "project-creation"
	FeatureApprovals       = "approvals"
	FeatureProjects        = "projects"
	FeatureTeam            = "team"
	FeatureReconciliation  = "reconciliation"
	FeatureSettings        = "settings"
)

var (
	allRoles    = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}
	adminRoles  = []Role{RoleAdmin, RoleSuperAdmin}
	superAdmins = []Role{RoleSuperAdmin}
)

// Features is the ordered menu catalog.
var Features = []Feature{
	{Key: FeatureDashboard, Label: "Dashboard", Path: "/dashboard", Roles: allRoles},
	{Key: FeatureSubmissions, Label: "My Submissions", Path: "/submissions", Roles: allRoles},
	{Key: FeatureMediaVault, Label: "Media Vault", Path: "/media-vault", Roles: allRoles},
	{Key: FeatureProjectCreation, Label: "Project Creation", Path: "/project-creation", Roles: adminRoles},
	{Key: FeatureApprovals, Label: "Approvals", Path: "/approvals", Roles: adminRoles},
	{Key: FeatureProjects, Label: "Project Status", Path: "/projects", Roles: adminRoles},
	{Key: FeatureTeam, Label: "Team", Path: "/team", Roles: superAdmins},
	{Key: FeatureReconciliation, Label: "Storage Reconciliation", Path: "/reconciliation", Roles: superAdmins},
	{Key: FeatureSettings, Label: "Settings", Path: "/settings", Roles: allRoles},
}

// FindFeature looks up a feature by key
func FindFeature(key string) (Feature, bool) {
	for _, f := range Features {
		if f.Key == key {
			return f, true
		}
	}
	return Feature{}, false
}

// MenuFor returns the features role may reach, in catalog order
func MenuFor(role Role) []Feature {
	var menu []Feature
	for _, f := range Features {
		if f.Allows(role) {
			menu = append(menu, f)
		}
	}
	return menu
}

// Session is the authenticated context of a request
type Session struct {
	ID       string   `json:"session_id"`
	Employee Employee `json:"employee"`
}
