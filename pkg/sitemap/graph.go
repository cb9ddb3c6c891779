package sitemap

// Node is one resource discovered during a crawl. ID is the absolute URL.
// Title and Rels stay empty for resources that were linked to but never
// fetched, for example beyond the depth or page budget.
type Node struct {
	ID    string   `json:"id"`
	Title string   `json:"title,omitempty"`
	Rels  []string `json:"rels,omitempty"`
}

// Edge is one link between two resources, labelled with its relation type.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rel  string `json:"rel"`
}

// Graph is the rel-graph of a crawled API: every fetched resource plus the
// stubs its links point at. Nodes keep discovery order. The zero value is
// not usable, call NewGraph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	nodeIndex map[string]int
	edgeSeen  map[Edge]bool
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeSeen:  make(map[Edge]bool),
	}
}

// AddNode inserts a node or enriches an existing one. A fetched page often
// arrives after its stub was created by an edge, so non-empty Title and Rels
// always win over the stub's empty values.
func (g *Graph) AddNode(n Node) {
	if i, ok := g.nodeIndex[n.ID]; ok {
		if n.Title != "" {
			g.Nodes[i].Title = n.Title
		}
		if len(n.Rels) > 0 {
			g.Nodes[i].Rels = n.Rels
		}
		return
	}
	g.nodeIndex[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// AddEdge inserts an edge, reporting whether it was new. Duplicate
// (from, to, rel) triples are dropped.
func (g *Graph) AddEdge(e Edge) bool {
	if g.edgeSeen[e] {
		return false
	}
	g.edgeSeen[e] = true
	g.Edges = append(g.Edges, e)
	return true
}

// Node returns the node with the given ID, if present.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}
