package hierarchy

import "github.com/ukaji3/circlepack-go/pkg/circlepack/models"

// Build converts circles into a three-level tree. The root carries no value;
// a layout derives its weight from the children. With no circles the root has
// no children and HasData reports false.
func Build(circles []models.Circle) models.HierarchyNode {
	root := models.HierarchyNode{Name: models.RootName}
	if len(circles) == 0 {
		return root
	}

	root.Children = make([]models.HierarchyNode, 0, len(circles))
	for _, c := range circles {
		node := models.HierarchyNode{
			Name:  c.Name,
			Value: models.Float(c.SumFTE()),
		}
		if len(c.Roles) > 0 {
			node.Children = make([]models.HierarchyNode, 0, len(c.Roles))
			for _, r := range c.Roles {
				node.Children = append(node.Children, models.HierarchyNode{
					Name:  r.Name,
					Value: models.Float(r.FTE),
				})
			}
		}
		root.Children = append(root.Children, node)
	}
	return root
}

// HasData reports whether the tree has at least one circle to render.
func HasData(root models.HierarchyNode) bool {
	return len(root.Children) > 0
}

// Circles reads circles back from a tree. Totals are recomputed from the
// role nodes rather than trusted from the circle node values, and any
// nesting below the role level is ignored.
func Circles(root models.HierarchyNode) []models.Circle {
	if len(root.Children) == 0 {
		return nil
	}
	circles := make([]models.Circle, 0, len(root.Children))
	for _, node := range root.Children {
		c := models.Circle{Name: node.Name}
		for _, role := range node.Children {
			c.Roles = append(c.Roles, models.RoleEntry{Name: role.Name, FTE: role.Weight()})
		}
		c.TotalFTE = c.SumFTE()
		circles = append(circles, c)
	}
	return circles
}

// Depth returns the maximum depth of the tree, the root being depth 0.
func Depth(n models.HierarchyNode) int {
	deepest := 0
	for _, child := range n.Children {
		if d := Depth(child) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}
