package models

// RootName is the label of the synthetic hierarchy root.
const RootName = "Organization"

// HierarchyNode is a node of the root -> circle -> role tree.
type HierarchyNode struct {
	// Name is the node label.
	Name string `json:"name"`
	// Value is the node weight. It is nil for the root.
	Value *float64 `json:"value,omitempty"`
	// Children lists child nodes in insertion order. Role nodes have none.
	Children []HierarchyNode `json:"children,omitempty"`
}

// Weight returns the node value, or 0 when unset.
func (n HierarchyNode) Weight() float64 {
	if n.Value == nil {
		return 0
	}
	return *n.Value
}

// Float returns a pointer to v, for building node values.
func Float(v float64) *float64 {
	return &v
}
