package model

import "time"

// ProjectCodePrefix is the prefix every project code must carry
const ProjectCodePrefix = "AI"

// BOQItem is a master bill-of-quantities line
type BOQItem struct {
	ID       string `json:"id"`
	ItemName string `json:"item_name"`
	Unit     string `json:"unit"`
}

// BOQUnit is a unit of measure in the BOQ master
type BOQUnit struct {
	ID       string `json:"id"`
	UnitName string `json:"unit_name"`
}

// ScopeItem is a BOQ item copied into a project's scope
type ScopeItem struct {
	ID       string  `json:"id"`
	ItemName string  `json:"item_name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
	Rate     float64 `json:"rate"`
}

// NewScopeItem copies item by value with zero quantity and rate.
func NewScopeItem(item BOQItem) ScopeItem {
	return ScopeItem{ID: item.ID, ItemName: item.ItemName, Unit: item.Unit}
}

// Project is a construction project record. Projects are created once and
// never edited.
type Project struct {
	ID              string `json:"id,omitempty"`
	ProjectCode     string `json:"project_code"`
	ProjectName     string `json:"project_name"`
	ProjectType     string `json:"project_type"`
	ProjectCategory string `json:"project_category"`
	ProjectStatus   string `json:"project_status"`

	ClientName    string `json:"client_name"`
	ClientOrg     string `json:"client_org,omitempty"`
	ClientContact string `json:"client_contact,omitempty"`
	ClientMobile  string `json:"client_mobile,omitempty"`
	ClientEmail   string `json:"client_email,omitempty"`
	ContractType  string `json:"contract_type,omitempty"`

	AgreementValue      float64 `json:"agreement_value"`
	EstimatedCost       float64 `json:"estimated_cost"`
	ApprovedBudget      float64 `json:"approved_budget"`
	RetentionPercentage float64 `json:"retention_percentage"`
	GSTApplicable       bool    `json:"gst_applicable"`
	PaymentTerms        string  `json:"payment_terms,omitempty"`

	SiteAddress string  `json:"site_address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Pincode     string  `json:"pincode"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	ProjectManagerID   string   `json:"project_manager_id"`
	SiteEngineerIDs    []string `json:"site_engineers_ids,omitempty"`
	QSEngineerID       string   `json:"qs_engineer_id,omitempty"`
	SafetyOfficerID    string   `json:"safety_officer_id,omitempty"`
	ReportingManagerID string   `json:"reporting_manager_id,omitempty"`

	StartDate             string `json:"start_date"`
	CompletionDate        string `json:"completion_date"`
	ActualCompletionDate  string `json:"actual_completion_date,omitempty"`
	DefectLiabilityPeriod int    `json:"defect_liability_period"`

	BOQAttached     bool   `json:"boq_attached"`
	BOQVersion      string `json:"boq_version,omitempty"`
	ScopeSummary    string `json:"scope_summary,omitempty"`
	Exclusions      string `json:"exclusions,omitempty"`
	WorkOrderNumber string `json:"work_order_number,omitempty"`
	WorkOrderDate   string `json:"work_order_date,omitempty"`

	ProjectVisibility    string `json:"project_visibility,omitempty"`
	ApprovalFlow         string `json:"approval_flow,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled"`

	BOQ       []ScopeItem `json:"boq_json"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}
