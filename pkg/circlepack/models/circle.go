package models

// RoleEntry is a role demanded by a circle.
type RoleEntry struct {
	// Name is the role name.
	Name string `json:"name"`
	// FTE is the required full-time-equivalent.
	FTE float64 `json:"fte"`
}

// Circle is an organizational unit and its roles.
type Circle struct {
	// Name identifies the circle within a dataset.
	Name string `json:"name"`
	// Roles lists role entries in input order. The same role name may appear twice.
	Roles []RoleEntry `json:"roles"`
	// TotalFTE is the sum of Roles[].FTE.
	TotalFTE float64 `json:"totalFTE"`
}

// SumFTE recomputes the total FTE from the role entries.
func (c Circle) SumFTE() float64 {
	var total float64
	for _, r := range c.Roles {
		total += r.FTE
	}
	return total
}
