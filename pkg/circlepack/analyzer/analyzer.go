// Package analyzer detects structural problems in an organization hierarchy.
//
// Analysis is a pure function of the hierarchy and the assignment rows:
// inputs are never mutated and repeated runs yield identical reports.
// Person problems come first, in order of first appearance in the
// assignments, followed by circle problems in hierarchy order.
package analyzer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/hierarchy"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

// HighFTEThreshold is the circle size above which a circle is overloaded.
const HighFTEThreshold = 12.0

// FullTime is the FTE a person is expected to sum to.
const FullTime = 1.0

// epsilon absorbs float summation noise in threshold comparisons.
const epsilon = 1e-9

// RuleSet selects which rules run.
type RuleSet string

const (
	// RuleSetBasic runs person-low-fte and the circle rules on required FTE.
	RuleSetBasic RuleSet = "basic"
	// RuleSetExtended adds person-high-fte, role-unassigned and zero assigned FTE.
	RuleSetExtended RuleSet = "extended"
)

// ParseRuleSet parses a rule set name. An empty name selects the extended set.
func ParseRuleSet(s string) (RuleSet, error) {
	switch RuleSet(s) {
	case "", RuleSetExtended:
		return RuleSetExtended, nil
	case RuleSetBasic:
		return RuleSetBasic, nil
	default:
		return "", fmt.Errorf("invalid rule set: %s (must be basic or extended)", s)
	}
}

// Analyze runs the basic rule set.
func Analyze(root *models.HierarchyNode, assignments []models.AssignmentRow) []models.StructureProblem {
	return AnalyzeWith(RuleSetBasic, root, assignments)
}

// AnalyzeWith runs the given rule set. A nil root or a root without circles
// yields an empty report.
func AnalyzeWith(rules RuleSet, root *models.HierarchyNode, assignments []models.AssignmentRow) []models.StructureProblem {
	problems := []models.StructureProblem{}
	if root == nil || !hierarchy.HasData(*root) {
		return problems
	}
	extended := rules == RuleSetExtended

	problems = append(problems, personProblems(assignments, extended)...)

	tally := tallyAssignments(assignments)
	for _, c := range hierarchy.Circles(*root) {
		problems = append(problems, circleProblems(c, tally, extended)...)
	}
	return problems
}

// personProblems flags people whose total FTE across all assignments is not 1.0.
func personProblems(assignments []models.AssignmentRow, extended bool) []models.StructureProblem {
	var order []string
	totals := make(map[string]float64)
	for _, a := range assignments {
		if _, ok := totals[a.PersonName]; !ok {
			order = append(order, a.PersonName)
		}
		totals[a.PersonName] += a.FTE
	}

	var problems []models.StructureProblem
	for _, person := range order {
		total := totals[person]
		details := fmt.Sprintf("Total FTE: %.2f", total)
		switch {
		case less(total, FullTime):
			problems = append(problems, models.StructureProblem{
				Type:     models.ProblemPersonLowFTE,
				Name:     person,
				Details:  details,
				Severity: models.SeverityMedium,
			})
		case extended && greater(total, FullTime):
			problems = append(problems, models.StructureProblem{
				Type:     models.ProblemPersonHighFTE,
				Name:     person,
				Details:  details,
				Severity: models.SeverityMedium,
			})
		}
	}
	return problems
}

// supply holds assigned FTE per circle and assignment counts per (circle, role).
type supply struct {
	circleFTE  map[string]float64
	roleCounts map[[2]string]int
}

func tallyAssignments(assignments []models.AssignmentRow) supply {
	s := supply{
		circleFTE:  make(map[string]float64),
		roleCounts: make(map[[2]string]int),
	}
	for _, a := range assignments {
		s.circleFTE[a.CircleName] += a.FTE
		s.roleCounts[[2]string{a.CircleName, a.RoleName}]++
	}
	return s
}

func circleProblems(c models.Circle, s supply, extended bool) []models.StructureProblem {
	var problems []models.StructureProblem
	required := c.TotalFTE
	assigned := s.circleFTE[c.Name]

	if less(assigned, required) && greater(required, 0) {
		problems = append(problems, models.StructureProblem{
			Type:     models.ProblemCircleLowFTE,
			Name:     c.Name,
			Details:  fmt.Sprintf("Required: %s, Assigned: %s", formatFTE(required), formatFTE(assigned)),
			Severity: models.SeverityHigh,
		})
	}

	if greater(required, HighFTEThreshold) {
		problems = append(problems, models.StructureProblem{
			Type:     models.ProblemCircleHighFTE,
			Name:     c.Name,
			Details:  "Total FTE: " + formatFTE(required),
			Severity: models.SeverityHigh,
		})
	}

	if len(c.Roles) == 1 {
		problems = append(problems, models.StructureProblem{
			Type:     models.ProblemCircleSingleRole,
			Name:     c.Name,
			Details:  "Contains only 1 role",
			Severity: models.SeverityLow,
		})
	}

	switch {
	case isZero(required):
		problems = append(problems, models.StructureProblem{
			Type:     models.ProblemCircleZeroFTE,
			Name:     c.Name,
			Details:  "Total FTE: 0",
			Severity: models.SeverityHigh,
		})
	case extended && isZero(assigned):
		problems = append(problems, models.StructureProblem{
			Type:     models.ProblemCircleZeroFTE,
			Name:     c.Name,
			Details:  "No FTE assigned",
			Severity: models.SeverityMedium,
		})
	}

	if extended {
		problems = append(problems, unassignedRoles(c, s)...)
	}
	return problems
}

// unassignedRoles reports each distinct role with demand but no assignment row.
func unassignedRoles(c models.Circle, s supply) []models.StructureProblem {
	var problems []models.StructureProblem
	seen := make(map[string]bool)
	for _, r := range c.Roles {
		if seen[r.Name] || !greater(r.FTE, 0) {
			continue
		}
		seen[r.Name] = true
		if s.roleCounts[[2]string{c.Name, r.Name}] > 0 {
			continue
		}
		problems = append(problems, models.StructureProblem{
			Type:     models.ProblemRoleUnassigned,
			Name:     r.Name,
			Details:  "Unassigned in circle " + c.Name,
			Severity: models.SeverityMedium,
		})
	}
	return problems
}

func less(a, b float64) bool    { return a < b-epsilon }
func greater(a, b float64) bool { return a > b+epsilon }
func isZero(a float64) bool     { return math.Abs(a) <= epsilon }

// formatFTE prints at most two decimals without trailing zeros.
func formatFTE(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
