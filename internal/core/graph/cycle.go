package graph

import "github.com/custodia-labs/reqsnake/internal/core/domain"

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// frame is one node on the DFS stack and the index of its next parent edge.
type frame struct {
	node int
	next int
}

// CheckCycles fails when following child-of references from any
// requirement leads back to it. The error path starts at the first node
// of the cycle on the current DFS path and repeats it at the end, so a
// requirement that is its own parent reports [A, A].
//
// Nodes are visited in input order and parents in declaration order, so
// the reported cycle is deterministic. References to IDs outside the
// graph are not edges.
func CheckCycles(g *Graph) error {
	n := len(g.order)
	index := make(map[string]int, n)
	for i, id := range g.order {
		index[id] = i
	}
	edges := make([][]int, n)
	for i, id := range g.order {
		for _, p := range g.byID[id].Requirement.Parents() {
			if j, ok := index[p]; ok {
				edges[i] = append(edges[i], j)
			}
		}
	}

	state := make([]visitState, n)
	depth := make([]int, n)
	var stack []frame

	for start := range n {
		if state[start] != unvisited {
			continue
		}
		state[start] = visiting
		depth[start] = 0
		stack = append(stack[:0], frame{node: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(edges[top.node]) {
				state[top.node] = visited
				stack = stack[:len(stack)-1]
				continue
			}
			next := edges[top.node][top.next]
			top.next++

			switch state[next] {
			case visiting:
				return domain.NewCircularDependencyError(cyclePath(g.order, stack[depth[next]:], next))
			case unvisited:
				state[next] = visiting
				depth[next] = len(stack)
				stack = append(stack, frame{node: next})
			}
		}
	}
	return nil
}

func cyclePath(ids []string, frames []frame, entry int) []string {
	path := make([]string, 0, len(frames)+1)
	for _, f := range frames {
		path = append(path, ids[f.node])
	}
	return append(path, ids[entry])
}
