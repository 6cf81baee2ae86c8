package circlepack

import (
	"time"

	"github.com/ukaji3/circlepack-go/pkg/circlepack/analyzer"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/hierarchy"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/parser"
	"go.uber.org/zap"
)

// Dataset is a built organization ready for rendering and analysis.
type Dataset struct {
	// Name is the user-visible label.
	Name string
	// Circles holds the aggregated circles in input order.
	Circles []models.Circle
	// Hierarchy is the root -> circle -> role tree.
	Hierarchy models.HierarchyNode
	// Occupancy maps roles to the circles demanding them.
	Occupancy *hierarchy.Occupancy
	// Staffing maps roles to the circles where people are assigned to them.
	Staffing *hierarchy.Occupancy
	// Assignments holds the normalized assignment rows.
	Assignments []models.AssignmentRow
}

// Build normalizes raw rows and builds a dataset. peopleRows may be nil.
// ErrNoData is returned when the organization rows yield no circle.
func Build(orgRows, peopleRows []models.Row, opts Options) (*Dataset, error) {
	logger := opts.logger()
	orgSchema := opts.OrganizationSchema()
	if err := orgSchema.Validate(); err != nil {
		return nil, err
	}
	peopleSchema := opts.AssignmentSchema()
	if err := peopleSchema.Validate(); err != nil {
		return nil, err
	}

	n := parser.NewNormalizer(logger)
	orgs := n.Organization(orgRows, orgSchema)
	assignments := n.Assignments(peopleRows, peopleSchema)

	circles, occupancy := hierarchy.Aggregate(orgs, hierarchy.AggregateOptions{
		MergeDuplicateRoles: opts.MergeDuplicateRoles,
	})
	if len(circles) == 0 {
		return nil, ErrNoData
	}

	logger.Info("built organization hierarchy",
		zap.Int("rows", len(orgs)),
		zap.Int("circles", len(circles)),
		zap.Int("roles", len(occupancy.Roles())),
		zap.Int("assignments", len(assignments)))

	return &Dataset{
		Circles:     circles,
		Hierarchy:   hierarchy.Build(circles),
		Occupancy:   occupancy,
		Staffing:    hierarchy.OccupancyFromAssignments(assignments),
		Assignments: assignments,
	}, nil
}

// FromShared rebuilds a dataset from a shared payload.
func FromShared(shared models.SharedDataset) (*Dataset, error) {
	if !hierarchy.HasData(shared.OrganizationData) {
		return nil, ErrNoData
	}
	circles := hierarchy.Circles(shared.OrganizationData)
	occupancy := hierarchy.NewOccupancy()
	for _, c := range circles {
		for _, r := range c.Roles {
			occupancy.Add(r.Name, c.Name)
		}
	}
	return &Dataset{
		Name:        shared.Name,
		Circles:     circles,
		Hierarchy:   shared.OrganizationData,
		Occupancy:   occupancy,
		Staffing:    hierarchy.OccupancyFromAssignments(shared.PeopleData),
		Assignments: shared.PeopleData,
	}, nil
}

// Analyze runs the analyzer over the dataset.
func (d *Dataset) Analyze(rules analyzer.RuleSet) []models.StructureProblem {
	return analyzer.AnalyzeWith(rules, &d.Hierarchy, d.Assignments)
}

// Shared returns the dataset as a share payload stamped with ts.
func (d *Dataset) Shared(ts time.Time) models.SharedDataset {
	return models.SharedDataset{
		OrganizationData: d.Hierarchy,
		PeopleData:       d.Assignments,
		Name:             d.Name,
		Timestamp:        ts,
	}
}
