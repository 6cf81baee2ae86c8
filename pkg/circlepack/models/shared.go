package models

import "time"

// SharedDataset is the payload persisted when a dataset is shared.
type SharedDataset struct {
	// OrganizationData is the hierarchy tree.
	OrganizationData HierarchyNode `json:"organizationData"`
	// PeopleData holds the assignment rows.
	PeopleData []AssignmentRow `json:"peopleData"`
	// Name is the user-visible dataset label.
	Name string `json:"name"`
	// Timestamp is when the dataset was shared.
	Timestamp time.Time `json:"timestamp"`
}
