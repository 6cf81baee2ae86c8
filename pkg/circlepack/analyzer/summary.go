package analyzer

import "github.com/ukaji3/circlepack-go/pkg/circlepack/models"

// Summary counts problems of a report.
type Summary struct {
	Total      int                        `json:"total"`
	BySeverity map[models.Severity]int    `json:"bySeverity"`
	ByType     map[models.ProblemType]int `json:"byType"`
}

// Summarize reduces a report to counts.
func Summarize(problems []models.StructureProblem) Summary {
	s := Summary{
		Total:      len(problems),
		BySeverity: make(map[models.Severity]int),
		ByType:     make(map[models.ProblemType]int),
	}
	for _, p := range problems {
		s.BySeverity[p.Severity]++
		s.ByType[p.Type]++
	}
	return s
}

// Count returns the number of problems with the given severity.
func (s Summary) Count(sev models.Severity) int {
	return s.BySeverity[sev]
}
