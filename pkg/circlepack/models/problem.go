package models

// ProblemType identifies the rule that produced a StructureProblem.
type ProblemType string

const (
	ProblemPersonLowFTE     ProblemType = "person-low-fte"
	ProblemPersonHighFTE    ProblemType = "person-high-fte"
	ProblemCircleLowFTE     ProblemType = "circle-low-fte"
	ProblemCircleHighFTE    ProblemType = "circle-high-fte"
	ProblemCircleSingleRole ProblemType = "circle-single-role"
	ProblemCircleZeroFTE    ProblemType = "circle-zero-fte"
	ProblemRoleUnassigned   ProblemType = "role-unassigned"
)

// Severity ranks a StructureProblem.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// StructureProblem is a single structural anomaly.
type StructureProblem struct {
	// Type is the rule that fired.
	Type ProblemType `json:"type"`
	// Name is the subject: a person, circle or role name.
	Name string `json:"name"`
	// Details is a human-readable explanation.
	Details string `json:"details"`
	// Severity is low, medium or high.
	Severity Severity `json:"severity"`
}
