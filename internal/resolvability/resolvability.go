// Package resolvability proves that every field reachable from a root
// operation type can be resolved by some subgraph, either directly or by
// entering another subgraph through an entity key.
package resolvability

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// Result holds the diagnostics of one check. Errors are unresolvable fields;
// unreachable types and abstract types without a confirmed member are
// reported as warnings. A member is confirmed when it is reached and all of
// its fields resolve.
type Result struct {
	Errors   []*ir.Violation
	Warnings []*ir.Violation
}

func (r *Result) Success() bool { return len(r.Errors) == 0 }

type nodeState int

const (
	unvisited nodeState = iota
	reachable
	confirmed
)

// node is a composite type being resolved by one subgraph.
type node struct {
	id       int64
	def      *ir.ParentDefinition
	subgraph string
	state    nodeState
	// unresolved lists the fields none of the enterable subgraphs resolves.
	unresolved []*ir.FieldDefinition
	depth      int
	parent     *node
	via        string
}

func (n *node) ID() int64 { return n.id }

// fieldEdge is labelled with the field whose response type it follows.
type fieldEdge struct {
	from, to graph.Node
	field    string
}

func (e fieldEdge) From() graph.Node { return e.from }
func (e fieldEdge) To() graph.Node   { return e.to }
func (e fieldEdge) ReversedEdge() graph.Edge {
	return fieldEdge{from: e.to, to: e.from, field: e.field}
}

type checker struct {
	reg   *ir.Registry
	g     *simple.DirectedGraph
	root  simple.Node
	nodes map[string]*node
	order []*node
	// jumps caches, per entity and subgraph, the subgraphs enterable from it.
	jumps map[string]map[string][]string
}

// Check builds the resolvability graph of a merged registry and walks it
// from the root operation types.
func Check(reg *ir.Registry) *Result {
	c := &checker{
		reg:   reg,
		g:     simple.NewDirectedGraph(),
		root:  simple.Node(0),
		nodes: make(map[string]*node),
		jumps: make(map[string]map[string][]string),
	}
	c.g.AddNode(c.root)
	c.build()
	c.walk()
	return c.report()
}

func nodeKey(typeName, subgraph string) string { return typeName + "@" + subgraph }

func (c *checker) build() {
	for _, def := range c.reg.Sorted() {
		if !def.IsComposite() || def.Inaccessible {
			continue
		}
		for _, sg := range lo.Uniq(def.Subgraphs) {
			n := &node{id: int64(len(c.order) + 1), def: def, subgraph: sg}
			c.nodes[nodeKey(def.Name, sg)] = n
			c.order = append(c.order, n)
			c.g.AddNode(n)
		}
	}
	for _, rootName := range ir.RootTypeNames {
		def := c.reg.Lookup(rootName)
		if def == nil {
			continue
		}
		for _, sg := range def.Subgraphs {
			if n := c.nodes[nodeKey(rootName, sg)]; n != nil {
				c.setEdge(c.root, n, rootName)
			}
		}
	}
	for _, n := range c.order {
		c.connect(n)
	}
}

func (c *checker) setEdge(from, to graph.Node, field string) {
	if from.ID() == to.ID() || c.g.HasEdgeFromTo(from.ID(), to.ID()) {
		return
	}
	c.g.SetEdge(fieldEdge{from: from, to: to, field: field})
}

func (c *checker) connect(n *node) {
	switch n.def.Kind {
	case language.Union:
		c.connectPossibleTypes(n)
		return
	case language.Interface:
		c.connectPossibleTypes(n)
	}
	enterable := c.enterable(n.def, n.subgraph)
	for _, f := range n.def.OrderedFields() {
		if f.Inaccessible {
			continue
		}
		resolving := lo.Filter(enterable, func(sg string, _ int) bool { return f.IsResolvedBy(sg) })
		if len(resolving) == 0 {
			n.unresolved = append(n.unresolved, f)
			continue
		}
		named := c.reg.Lookup(f.Type.NamedTypeName())
		if named == nil || !named.IsComposite() {
			continue
		}
		for _, sg := range resolving {
			if target := c.nodes[nodeKey(named.Name, sg)]; target != nil {
				c.setEdge(n, target, f.Name)
			}
		}
	}
}

func (c *checker) connectPossibleTypes(n *node) {
	for _, p := range c.reg.PossibleTypes(n.def) {
		if target := c.nodes[nodeKey(p.Name, n.subgraph)]; target != nil {
			c.setEdge(n, target, "... on "+p.Name)
		}
	}
}

// enterable returns the subgraphs that can resolve def starting from
// subgraph: itself plus those reachable through chains of entity keys. A
// subgraph can leave an entity through any of its keys and be entered
// through its resolvable keys. Every subgraph is enterable at a root type.
func (c *checker) enterable(def *ir.ParentDefinition, subgraph string) []string {
	if ir.IsRootType(def.Name) {
		out := lo.Uniq(def.Subgraphs)
		sort.Strings(out)
		return out
	}
	if !def.IsEntity {
		return []string{subgraph}
	}
	byOrigin, ok := c.jumps[def.Name]
	if !ok {
		byOrigin = make(map[string][]string)
		c.jumps[def.Name] = byOrigin
	}
	if out, ok := byOrigin[subgraph]; ok {
		return out
	}
	leave := make(map[string][]string)
	enter := make(map[string][]string)
	for _, k := range def.Keys {
		leave[k.Subgraph] = lo.Union(leave[k.Subgraph], []string{k.FieldSet})
		if k.Resolvable && !k.DisableEntityResolver {
			enter[k.Subgraph] = lo.Union(enter[k.Subgraph], []string{k.FieldSet})
		}
	}
	seen := map[string]bool{subgraph: true}
	queue := []string{subgraph}
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]
		for _, to := range sortedKeys(enter) {
			if seen[to] || len(lo.Intersect(leave[from], enter[to])) == 0 {
				continue
			}
			seen[to] = true
			queue = append(queue, to)
		}
	}
	out := sortedKeys(seen)
	byOrigin[subgraph] = out
	return out
}

// walk marks every node reachable from the roots with its breadth-first
// depth, then picks for each node the lowest-numbered parent one level up
// so that reported paths do not depend on map iteration order.
func (c *checker) walk() {
	bf := traverse.BreadthFirst{}
	bf.Walk(c.g, c.root, func(gn graph.Node, depth int) bool {
		if n, ok := gn.(*node); ok {
			n.state = reachable
			n.depth = depth
		}
		return false
	})
	for _, n := range c.order {
		if n.state == unvisited {
			continue
		}
		if len(n.unresolved) == 0 {
			n.state = confirmed
		}
		var best graph.Node
		preds := c.g.To(n.id)
		for preds.Next() {
			p := preds.Node()
			if p.ID() == c.root.ID() {
				if n.depth == 1 && (best == nil || p.ID() < best.ID()) {
					best = p
				}
				continue
			}
			pn := p.(*node)
			if pn.state == unvisited || pn.depth != n.depth-1 {
				continue
			}
			if best == nil || p.ID() < best.ID() {
				best = p
			}
		}
		if best == nil {
			continue
		}
		if pn, ok := best.(*node); ok {
			n.parent = pn
		}
		n.via = c.g.Edge(best.ID(), n.id).(fieldEdge).field
	}
}

// path renders the field path leading to n, like "Query.me.friends".
func (n *node) path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.via)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func (c *checker) report() *Result {
	res := &Result{}
	reported := make(map[string]bool)
	typeState := make(map[string]nodeState)
	for _, n := range c.order {
		if n.state > typeState[n.def.Name] {
			typeState[n.def.Name] = n.state
		}
	}

	// Shallowest occurrence first so each field is reported with its
	// shortest path.
	visited := lo.Filter(c.order, func(n *node, _ int) bool { return n.state != unvisited })
	sort.SliceStable(visited, func(i, j int) bool { return visited[i].depth < visited[j].depth })
	for _, n := range visited {
		for _, f := range n.unresolved {
			coords := f.Coordinates()
			if reported[coords] {
				continue
			}
			reported[coords] = true
			res.Errors = append(res.Errors, ir.ViolationUnresolvable(coords, n.path(), f.ResolvedBy))
		}
	}

	for _, def := range c.reg.Sorted() {
		if !def.IsComposite() || def.Inaccessible || ir.IsRootType(def.Name) {
			continue
		}
		if typeState[def.Name] == unvisited {
			if def.IsEntity {
				res.Warnings = append(res.Warnings, ir.ViolationUnreachableEntityType(def.Name))
			} else {
				res.Warnings = append(res.Warnings, ir.ViolationUnreachable(def.Name))
			}
			continue
		}
		if def.IsAbstract() && !lo.SomeBy(c.reg.PossibleTypes(def), func(p *ir.ParentDefinition) bool {
			return typeState[p.Name] == confirmed
		}) {
			res.Warnings = append(res.Warnings, ir.ViolationAbstractBranch(def.Name))
		}
	}
	return res
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
