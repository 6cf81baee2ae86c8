package models

// OrganizationRow is one normalized row of an organization sheet.
type OrganizationRow struct {
	// CircleName is the owning circle.
	CircleName string `json:"circleName"`
	// Role is the role demanded by the circle.
	Role string `json:"role"`
	// FTE is the required full-time-equivalent, never negative.
	FTE float64 `json:"fte"`
}

// AssignmentRow is one normalized row of an assignment sheet.
type AssignmentRow struct {
	// CircleName is the circle the person works in.
	CircleName string `json:"circleName"`
	// RoleName is the role the person fills.
	RoleName string `json:"roleName"`
	// PersonName is the assigned person.
	PersonName string `json:"personName"`
	// FTE is the supplied full-time-equivalent, never negative.
	FTE float64 `json:"fte"`
}
