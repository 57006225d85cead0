package validation

import "github.com/alexanderramin/prodboard/internal/domain"

const (
	white = 0 // unvisited
	gray  = 1 // on the current path
	black = 2 // fully explored, no cycle below
)

// findCycle walks the dependency graph (edges feature -> dependency) starting
// at f, with f's outgoing edges replaced by depIDs. It returns the cycle as a
// list of feature IDs whose first and last element are equal, or nil.
//
// Gray marks the current path only, so a node reached twice through
// different branches (a diamond) is not mistaken for a cycle.
func (v *Validator) findCycle(f *domain.Feature, depIDs []string) []string {
	edges := func(id string) []string {
		if id == f.ID {
			return depIDs
		}
		if n, ok := v.byID[id]; ok {
			return n.Dependencies
		}
		return nil
	}

	color := make(map[string]int)
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range edges(id) {
			switch color[next] {
			case gray:
				return cyclePath(stack, next)
			case white:
				if path := visit(next); path != nil {
					return path
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	return visit(f.ID)
}

// cyclePath extracts the cycle ending back at target from the DFS stack.
func cyclePath(stack []string, target string) []string {
	for i, id := range stack {
		if id == target {
			path := make([]string, 0, len(stack)-i+1)
			path = append(path, stack[i:]...)
			return append(path, target)
		}
	}
	return []string{target, target}
}
