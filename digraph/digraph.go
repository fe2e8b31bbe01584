// Package digraph implements the directed graph used to record the
// control flow between generated basic blocks.
//
package digraph // import "github.com/RobotoSkunk/mascal/digraph"

// Digraph is a directed graph with nodes numbered from 0.
type Digraph []graphNode

type graphNode struct {
	Edges []int
	Preds []int
}

// AddNode appends a node without edges and returns its number.
func (g *Digraph) AddNode() int {
	*g = append(*g, graphNode{})
	return len(*g) - 1
}

// AddEdge adds a directed edge from node i to j. Predecessors are
// kept in insertion order.
func (g Digraph) AddEdge(i, j int) {
	g[i].Edges = append(g[i].Edges, j)
	g[j].Preds = append(g[j].Preds, i)
}

// Succs returns the nodes reached by edges leaving node i.
func (g Digraph) Succs(i int) []int { return g[i].Edges }

// Preds returns the nodes with an edge entering node i.
func (g Digraph) Preds(i int) []int { return g[i].Preds }

// ReversePostOrder returns the nodes reachable from root in reverse
// post-order, which lists every block before its successors in an
// acyclic graph.
func (g Digraph) ReversePostOrder(root int) []int {
	postOrder := g.visit(root, make([]bool, len(g)), nil)
	for i, j := 0, len(postOrder)-1; i < j; i, j = i+1, j-1 {
		postOrder[i], postOrder[j] = postOrder[j], postOrder[i]
	}
	return postOrder
}

func (g Digraph) visit(node int, visited []bool, postOrder []int) []int {
	if visited[node] {
		return postOrder
	}
	visited[node] = true
	for _, succ := range g.Succs(node) {
		postOrder = g.visit(succ, visited, postOrder)
	}
	return append(postOrder, node)
}
