package dfg

import "sort"

// Node is a render-ready graph node.
type Node struct {
	ID string `json:"id"`
}

// Edge is a render-ready weighted transition.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// ElementList is the node/edge set handed to the presentation layer.
type ElementList struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Elements converts the graph into deterministic node and edge lists. Only
// activities appearing in the surviving edge set become nodes, so filtered
// graphs do not render orphaned labels. Edges are sorted by weight descending
// with (source, target) tie-breaks; nodes are sorted by id.
func (g Graph) Elements() ElementList {
	var el ElementList

	seen := make(map[string]bool)
	for t, n := range g {
		el.Edges = append(el.Edges, Edge{Source: t.Source, Target: t.Target, Weight: n})
		for _, id := range []string{t.Source, t.Target} {
			if !seen[id] {
				seen[id] = true
				el.Nodes = append(el.Nodes, Node{ID: id})
			}
		}
	}

	sort.Slice(el.Edges, func(i, j int) bool {
		if el.Edges[i].Weight != el.Edges[j].Weight {
			return el.Edges[i].Weight > el.Edges[j].Weight
		}
		if el.Edges[i].Source != el.Edges[j].Source {
			return el.Edges[i].Source < el.Edges[j].Source
		}
		return el.Edges[i].Target < el.Edges[j].Target
	})
	sort.Slice(el.Nodes, func(i, j int) bool {
		return el.Nodes[i].ID < el.Nodes[j].ID
	})
	return el
}
