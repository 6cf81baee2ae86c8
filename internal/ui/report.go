package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/hierarchy"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

// RenderProblems writes the problem report followed by a summary line.
func RenderProblems(w io.Writer, problems []models.StructureProblem) error {
	st := NewStyles(w)
	var b strings.Builder

	if len(problems) == 0 {
		b.WriteString(st.Pass.Render("✓ No structural problems found"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(st.Title.Render("Structural problems"))
	b.WriteString("\n")
	for _, p := range problems {
		sev := st.Severity(p.Severity)
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			sev.Render(fmt.Sprintf("%-6s", p.Severity)),
			st.Accent.Render(string(p.Type)),
			p.Name,
			st.Muted.Render("- "+p.Details))
	}

	s := analyzer.Summarize(problems)
	fmt.Fprintf(&b, "\n%d problems: %s, %s, %s\n",
		s.Total,
		st.Fail.Render(strconv.Itoa(s.Count(models.SeverityHigh))+" high"),
		st.Warn.Render(strconv.Itoa(s.Count(models.SeverityMedium))+" medium"),
		st.Muted.Render(strconv.Itoa(s.Count(models.SeverityLow))+" low"))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTree writes the hierarchy as an indented tree. Roles demanded by
// other circles too are annotated with those circles. When staffing holds
// any assignment, roles nobody is assigned to in their circle are marked.
func RenderTree(w io.Writer, root models.HierarchyNode, occupancy, staffing *hierarchy.Occupancy) error {
	st := NewStyles(w)
	var b strings.Builder
	checkStaffing := staffing != nil && len(staffing.Roles()) > 0

	b.WriteString(st.Title.Render(root.Name))
	b.WriteString("\n")
	for i, circle := range root.Children {
		branch, indent := "├── ", "│   "
		if i == len(root.Children)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(&b, "%s%s %s\n", branch, st.Accent.Render(circle.Name), st.Muted.Render(fte(circle)))

		for j, role := range circle.Children {
			leaf := "├── "
			if j == len(circle.Children)-1 {
				leaf = "└── "
			}
			line := fmt.Sprintf("%s%s%s %s", indent, leaf, role.Name, st.Muted.Render(fte(role)))
			if occupancy != nil {
				if others := occupancy.SharedWith(role.Name, circle.Name); len(others) > 0 {
					line += st.Muted.Render(" also in " + strings.Join(others, ", "))
				}
			}
			if checkStaffing && !staffing.Has(role.Name, circle.Name) {
				line += st.Warn.Render(" unstaffed")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fte(n models.HierarchyNode) string {
	return "(" + strconv.FormatFloat(n.Weight(), 'f', -1, 64) + " FTE)"
}
