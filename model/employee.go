package model

import "strings"

// Role is the access level of an employee
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Employee is a row of the profile master table
type Employee struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Designation string `json:"designation" yaml:"designation"`
	Department  string `json:"department" yaml:"department"`
	Role        Role   `json:"role" yaml:"role"`
	Dashboard   string `json:"dashboard" yaml:"dashboard"`
}

// SameID compares employee identifiers case-insensitively.
func SameID(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// DefaultEmployees is the master list used when neither the database nor the
// config file provides one.
func DefaultEmployees() []Employee {
	return []Employee{
		{ID: "AI1001", Name: "Nanda Kumar", Designation: "Managing Director", Department: "Management", Role: RoleSuperAdmin, Dashboard: "MD Command Center"},
		{ID: "AI1002", Name: "Alekhya", Designation: "Director", Department: "Project", Role: RoleAdmin, Dashboard: "Executive Control"},
		{ID: "AI1003", Name: "Manikandan", Designation: "Foreman", Department: "Site", Role: RoleUser, Dashboard: "Site Execution"},
		{ID: "AI1004", Name: "Alekhya B", Designation: "Business Head", Department: "Management", Role: RoleAdmin, Dashboard: "Executive Control"},
		{ID: "AI1005", Name: "S S Babu", Designation: "GM", Department: "Projects", Role: RoleAdmin, Dashboard: "Executive Control"},
		{ID: "AI1008", Name: "Imtiaz", Designation: "Purchase Executive", Department: "Procurement", Role: RoleUser, Dashboard: "Procurement Desk"},
		{ID: "AI1011", Name: "Hajira S K", Designation: "Manager", Department: "Admin & HR", Role: RoleAdmin, Dashboard: "HR Command"},
		{ID: "AI1012", Name: "Sudha Ramanathan", Designation: "Manager", Department: "Accounts & Finance", Role: RoleAdmin, Dashboard: "Finance Control"},
		{ID: "AI1013", Name: "Gowri Shankar", Designation: "Manager", Department: "Tech & Digital Media", Role: RoleAdmin, Dashboard: "Tech Control"},
		{ID: "AI1015", Name: "Vinoth Kumar R", Designation: "Project Manager", Department: "Projects", Role: RoleAdmin, Dashboard: "Project Owner"},
		{ID: "AI1020", Name: "Rajesh Kumar", Designation: "Accounts Executive", Department: "Finance", Role: RoleUser, Dashboard: "Finance Control"},
		{ID: "AI1027", Name: "Ajith", Designation: "Safety Officer", Department: "Site", Role: RoleUser, Dashboard: "Safety Desk"},
		{ID: "AI1029", Name: "Praveen", Designation: "Quality Engineer", Department: "QA/QC", Role: RoleUser, Dashboard: "QA Dashboard"},
	}
}
