package graph

// Closure returns the triples rooted at root: every triple with root as
// subject plus, transitively, the triples of any blank node reached as an
// object. Each blank node is expanded at most once, so cyclic blank node
// structures terminate. Triples come back in discovery order.
func Closure(g *Graph, root Term) []Triple {
	var out []Triple
	visited := map[Term]struct{}{root: {}}
	queue := []Term{root}

	for len(queue) > 0 {
		// Breadth-first keeps the output order deterministic.
		node := queue[0]
		queue = queue[1:]

		for _, t := range g.Match(node, Term{}, Term{}) {
			out = append(out, t)
			if !t.Object.IsBlank() {
				continue
			}
			if _, ok := visited[t.Object]; ok {
				continue
			}
			visited[t.Object] = struct{}{}
			queue = append(queue, t.Object)
		}
	}
	return out
}

// ClosureGraph is Closure collected into a new Graph.
func ClosureGraph(g *Graph, root Term) *Graph {
	out := New()
	out.AddAll(Closure(g, root))
	return out
}
