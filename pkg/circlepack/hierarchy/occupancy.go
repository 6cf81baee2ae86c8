package hierarchy

import "github.com/ukaji3/circlepack-go/pkg/circlepack/models"

// Occupancy maps a role name to the circles demanding it, in order of first appearance.
// A listed role always has at least one circle.
type Occupancy struct {
	roles   []string
	circles map[string][]string
}

// NewOccupancy returns an empty index.
func NewOccupancy() *Occupancy {
	return &Occupancy{circles: make(map[string][]string)}
}

// OccupancyFromAssignments indexes the circles in which each role is assigned.
func OccupancyFromAssignments(rows []models.AssignmentRow) *Occupancy {
	o := NewOccupancy()
	for _, r := range rows {
		o.Add(r.RoleName, r.CircleName)
	}
	return o
}

// Add records that circle demands role. Repeated pairs are ignored.
func (o *Occupancy) Add(role, circle string) {
	existing, ok := o.circles[role]
	if !ok {
		o.roles = append(o.roles, role)
	}
	for _, c := range existing {
		if c == circle {
			return
		}
	}
	o.circles[role] = append(existing, circle)
}

// Circles returns the circles demanding role, or nil if the role is unknown.
func (o *Occupancy) Circles(role string) []string {
	cs := o.circles[role]
	if cs == nil {
		return nil
	}
	return append([]string(nil), cs...)
}

// SharedWith returns the other circles that also demand role.
func (o *Occupancy) SharedWith(role, circle string) []string {
	var others []string
	for _, c := range o.circles[role] {
		if c != circle {
			others = append(others, c)
		}
	}
	return others
}

// Roles returns all indexed roles in order of first appearance.
func (o *Occupancy) Roles() []string {
	return append([]string(nil), o.roles...)
}

// Has reports whether circle is listed for role.
func (o *Occupancy) Has(role, circle string) bool {
	for _, c := range o.circles[role] {
		if c == circle {
			return true
		}
	}
	return false
}
