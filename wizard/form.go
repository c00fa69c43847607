package wizard

import (
	"strconv"
	"strings"

	"github.com/aaraaapps/aaraa.app/model"
)

// text fields and their initial values
var textDefaults = map[string]string{
	"project_code":            model.ProjectCodePrefix,
	"project_name":            "",
	"project_type":            "Residential",
	"project_category":        "Turnkey",
	"project_status":          "Planned",
	"client_name":             "",
	"client_org":              "",
	"client_contact":          "",
	"client_mobile":           "",
	"client_email":            "",
	"contract_type":           "BOQ Based",
	"agreement_value":         "",
	"site_address":            "",
	"city":                    "",
	"state":                   "",
	"pincode":                 "",
	"latitude":                "",
	"longitude":               "",
	"start_date":              "",
	"completion_date":         "",
	"actual_completion_date":  "",
	"defect_liability_period": "12",
	"project_manager_id":      "",
	"site_engineers_ids":      "",
	"qs_engineer_id":          "",
	"safety_officer_id":       "",
	"reporting_manager_id":    "",
	"estimated_cost":          "",
	"approved_budget":         "",
	"retention_percentage":    "5",
	"payment_terms":           "RA",
	"boq_version":             "V1.0",
	"scope_summary":           "",
	"exclusions":              "",
	"work_order_number":       "",
	"work_order_date":         "",
	"project_visibility":      "Assigned Team",
	"approval_flow":           "Standard",
}

// checkbox fields and their initial values
var flagDefaults = map[string]bool{
	"gst_applicable":        true,
	"boq_attached":          true,
	"notifications_enabled": true,
}

// IsTextField reports whether name is an editable text field
func IsTextField(name string) bool {
	_, ok := textDefaults[name]
	return ok
}

// IsFlagField reports whether name is a checkbox field
func IsFlagField(name string) bool {
	_, ok := flagDefaults[name]
	return ok
}

// parseAmount converts a form string to a number. Blank or malformed
// input becomes 0; thousands separators are ignored.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount truncates a numeric form string to an int, 0 when malformed
func parseCount(s string) int {
	return int(parseAmount(s))
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s State) validate() error {
	code := strings.TrimSpace(s.text["project_code"])
	name := strings.TrimSpace(s.text["project_name"])
	if code == "" || name == "" {
		return &ValidationError{Field: "project_code", Message: "Project Code and Name are mandatory."}
	}
	if !strings.HasPrefix(code, model.ProjectCodePrefix) {
		return &ValidationError{Field: "project_code", Message: "Project Code must start with 'AI'."}
	}
	return nil
}

// project builds the record persisted on submit
func (s State) project(createdBy string) *model.Project {
	f := s.text
	return &model.Project{
		ProjectCode:     strings.TrimSpace(f["project_code"]),
		ProjectName:     strings.TrimSpace(f["project_name"]),
		ProjectType:     f["project_type"],
		ProjectCategory: f["project_category"],
		ProjectStatus:   f["project_status"],

		ClientName:    f["client_name"],
		ClientOrg:     f["client_org"],
		ClientContact: f["client_contact"],
		ClientMobile:  f["client_mobile"],
		ClientEmail:   f["client_email"],
		ContractType:  f["contract_type"],

		AgreementValue:      parseAmount(f["agreement_value"]),
		EstimatedCost:       parseAmount(f["estimated_cost"]),
		ApprovedBudget:      parseAmount(f["approved_budget"]),
		RetentionPercentage: parseAmount(f["retention_percentage"]),
		GSTApplicable:       s.flags["gst_applicable"],
		PaymentTerms:        f["payment_terms"],

		SiteAddress: f["site_address"],
		City:        f["city"],
		State:       f["state"],
		Pincode:     f["pincode"],
		Latitude:    parseAmount(f["latitude"]),
		Longitude:   parseAmount(f["longitude"]),

		ProjectManagerID:   f["project_manager_id"],
		SiteEngineerIDs:    splitIDs(f["site_engineers_ids"]),
		QSEngineerID:       f["qs_engineer_id"],
		SafetyOfficerID:    f["safety_officer_id"],
		ReportingManagerID: f["reporting_manager_id"],

		StartDate:             f["start_date"],
		CompletionDate:        f["completion_date"],
		ActualCompletionDate:  f["actual_completion_date"],
		DefectLiabilityPeriod: parseCount(f["defect_liability_period"]),

		BOQAttached:     s.flags["boq_attached"],
		BOQVersion:      f["boq_version"],
		ScopeSummary:    f["scope_summary"],
		Exclusions:      f["exclusions"],
		WorkOrderNumber: f["work_order_number"],
		WorkOrderDate:   f["work_order_date"],

		ProjectVisibility:    f["project_visibility"],
		ApprovalFlow:         f["approval_flow"],
		NotificationsEnabled: s.flags["notifications_enabled"],

		BOQ:       s.Scope(),
		CreatedBy: createdBy,
	}
}
