// Package hierarchy groups organization rows into circles and builds the
// root -> circle -> role tree consumed by circle-packing layouts.
package hierarchy

import "github.com/ukaji3/circlepack-go/pkg/circlepack/models"

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	// MergeDuplicateRoles sums repeated (circle, role) pairs into one entry.
	// By default every row keeps its own entry, so a role listed twice
	// under a circle stands for two instances of that role.
	MergeDuplicateRoles bool
}

// Aggregate groups rows by circle in order of first appearance and
// indexes which circles demand each role.
func Aggregate(rows []models.OrganizationRow, opts AggregateOptions) ([]models.Circle, *Occupancy) {
	var circles []models.Circle
	index := make(map[string]int)
	occupancy := NewOccupancy()

	for _, row := range rows {
		i, ok := index[row.CircleName]
		if !ok {
			i = len(circles)
			index[row.CircleName] = i
			circles = append(circles, models.Circle{Name: row.CircleName})
		}
		circles[i].Roles = addRole(circles[i].Roles, row, opts.MergeDuplicateRoles)
		occupancy.Add(row.Role, row.CircleName)
	}

	for i := range circles {
		circles[i].TotalFTE = circles[i].SumFTE()
	}
	return circles, occupancy
}

func addRole(roles []models.RoleEntry, row models.OrganizationRow, merge bool) []models.RoleEntry {
	if merge {
		for i := range roles {
			if roles[i].Name == row.Role {
				roles[i].FTE += row.FTE
				return roles
			}
		}
	}
	return append(roles, models.RoleEntry{Name: row.Role, FTE: row.FTE})
}
