// Package fieldset parses and validates the selection-set strings carried by
// @key, @provides and @requires.
package fieldset

import (
	"strings"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

type Mode int

const (
	ModeKey Mode = iota
	ModeProvides
	ModeRequires
)

// DirectiveName returns the directive that carries field sets of this mode.
func (m Mode) DirectiveName() string {
	switch m {
	case ModeProvides:
		return ir.DirectiveProvides.String()
	case ModeRequires:
		return ir.DirectiveRequires.String()
	default:
		return ir.DirectiveKey.String()
	}
}

// Path locates one selected field: the coordinates from the outermost
// selection down to the field, and the matching response path.
type Path struct {
	Coordinates []ir.FieldCoordinates
	FieldPath   []string
	Leaf        bool
}

// Last returns the coordinates of the selected field itself.
func (p Path) Last() ir.FieldCoordinates {
	return p.Coordinates[len(p.Coordinates)-1]
}

type Result struct {
	SelectionSet language.SelectionSet
	// Normalized is the canonical single-line rendering of the field set.
	Normalized string
	// Key is set in key mode when the field set is valid.
	Key    *ir.EntityKey
	Paths  []Path
	Errors []*ir.Violation
}

func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Validate checks fieldSet against parent, the type its outermost selections
// apply to. All violations are collected; only a parse failure stops early.
func Validate(reg *ir.Registry, parent string, mode Mode, fieldSet string) *Result {
	res := &Result{}
	selections, err := language.ParseFieldSet(fieldSet)
	if err != nil {
		res.Errors = append(res.Errors, ir.ViolationUnparsable(mode.DirectiveName(), parent, fieldSet, language.ErrorMessage(err)))
		return res
	}
	res.SelectionSet = selections

	parentDef := reg.Lookup(parent)
	if parentDef == nil {
		res.Errors = append(res.Errors, ir.ViolationUnknownTypeCondition(fieldSet, parent, parent))
		return res
	}

	w := &walker{reg: reg, mode: mode, fieldSet: fieldSet}
	root := newNode(parentDef)
	w.walk(root, parentDef, selections, nil, nil)
	res.Errors = w.errors
	res.Paths = w.paths
	res.Normalized = root.print()
	if mode == ModeKey && res.OK() {
		res.Key = root.entityKey(parentDef.Name)
	}
	return res
}

type walker struct {
	reg      *ir.Registry
	mode     Mode
	fieldSet string
	errors   []*ir.Violation
	paths    []Path
}

func (w *walker) addViolation(v *ir.Violation, pos *language.Position) {
	w.errors = append(w.errors, v.At(pos))
}

func (w *walker) walk(n *node, parent *ir.ParentDefinition, selections language.SelectionSet, coords []ir.FieldCoordinates, path []string) {
	for _, sel := range selections {
		switch sel := sel.(type) {
		case *language.Field:
			w.walkField(n, parent, sel, coords, path)
		case *language.InlineFragment:
			w.walkInlineFragment(n, parent, sel, coords, path)
		case *language.FragmentSpread:
			w.addViolation(ir.ViolationFragmentSpread(w.fieldSet, parent.Name), sel.Position)
		}
	}
}

func (w *walker) walkField(n *node, parent *ir.ParentDefinition, sel *language.Field, coords []ir.FieldCoordinates, path []string) {
	coordinates := ir.Coordinates(parent.Name, sel.Name)
	if sel.Alias != "" && sel.Alias != sel.Name {
		w.addViolation(ir.ViolationAlias(w.fieldSet, coordinates), sel.Position)
	}
	for _, d := range sel.Directives {
		w.addViolation(ir.ViolationDirective(w.fieldSet, parent.Name, d.Name), d.Position)
	}

	var fd *ir.FieldDefinition
	if parent.HasFields() {
		fd = parent.Fields[sel.Name]
	}
	if fd == nil {
		w.addViolation(ir.ViolationUndefinedField(w.fieldSet, parent.Name, sel.Name), sel.Position)
		return
	}
	if n.hasField(sel.Name) {
		w.addViolation(ir.ViolationDuplicateField(w.fieldSet, coordinates), sel.Position)
		return
	}

	for _, arg := range sel.Arguments {
		if _, ok := fd.Args[arg.Name]; !ok {
			w.addViolation(ir.ViolationUndefinedArgument(w.fieldSet, coordinates, arg.Name), arg.Position)
		}
	}
	for _, def := range fd.OrderedArgs() {
		if def.Type.IsNonNull() && def.DefaultValue == nil && sel.Arguments.ForName(def.Name) == nil {
			w.addViolation(ir.ViolationMissingRequiredArgument(w.fieldSet, coordinates, def.Name), sel.Position)
		}
	}

	fieldCoords := append(append([]ir.FieldCoordinates(nil), coords...), ir.FieldCoordinates{TypeName: parent.Name, FieldName: sel.Name})
	fieldPath := append(append([]string(nil), path...), sel.Name)
	fn := &fieldNode{name: sel.Name, arguments: sel.Arguments}
	n.fields = append(n.fields, fn)

	typeName := fd.Type.NamedTypeName()
	named := w.reg.Lookup(typeName)
	switch {
	case named == nil || named.IsLeaf():
		if len(sel.SelectionSet) > 0 {
			w.addViolation(ir.ViolationSelectionOnLeaf(w.fieldSet, coordinates, typeName), sel.Position)
		}
		w.paths = append(w.paths, Path{Coordinates: fieldCoords, FieldPath: fieldPath, Leaf: true})
	case named.IsAbstract() && w.mode == ModeKey:
		w.addViolation(ir.ViolationAbstractTypeInKey(w.fieldSet, coordinates, typeName), sel.Position)
	case len(sel.SelectionSet) == 0:
		w.addViolation(ir.ViolationMissingSelectionSet(w.fieldSet, coordinates, typeName), sel.Position)
	default:
		w.paths = append(w.paths, Path{Coordinates: fieldCoords, FieldPath: fieldPath})
		fn.child = newNode(named)
		w.walk(fn.child, named, sel.SelectionSet, fieldCoords, fieldPath)
	}
}

func (w *walker) walkInlineFragment(n *node, parent *ir.ParentDefinition, sel *language.InlineFragment, coords []ir.FieldCoordinates, path []string) {
	for _, d := range sel.Directives {
		w.addViolation(ir.ViolationDirective(w.fieldSet, parent.Name, d.Name), d.Position)
	}
	if sel.TypeCondition == "" {
		w.addViolation(ir.ViolationMissingTypeCondition(w.fieldSet, parent.Name), sel.Position)
		return
	}
	cond := w.reg.Lookup(sel.TypeCondition)
	if cond == nil {
		w.addViolation(ir.ViolationUnknownTypeCondition(w.fieldSet, parent.Name, sel.TypeCondition), sel.Position)
		return
	}
	if cond.Name == parent.Name {
		w.walk(n, parent, sel.SelectionSet, coords, path)
		return
	}
	if !isPossibleType(parent, cond) {
		w.addViolation(ir.ViolationInvalidTypeCondition(w.fieldSet, parent.Name, cond.Name), sel.Position)
		return
	}
	w.walk(n.fragment(cond), cond, sel.SelectionSet, coords, path)
}

// isPossibleType reports whether a fragment on cond may apply inside parent.
func isPossibleType(parent, cond *ir.ParentDefinition) bool {
	switch parent.Kind {
	case language.Interface:
		return cond.HasFields() && cond.Implements(parent.Name)
	case language.Union:
		return cond.Kind == language.Object && parent.HasMember(cond.Name)
	}
	return false
}

// node is the canonical form of one selection level. Fragments with the same
// type condition share one node.
type node struct {
	typeName  string
	fields    []*fieldNode
	fragments []*fragmentNode
}

type fieldNode struct {
	name      string
	arguments language.ArgumentList
	child     *node
}

type fragmentNode struct {
	condition string
	body      *node
}

func newNode(def *ir.ParentDefinition) *node {
	return &node{typeName: def.Name}
}

func (n *node) hasField(name string) bool {
	for _, f := range n.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

func (n *node) fragment(cond *ir.ParentDefinition) *node {
	for _, f := range n.fragments {
		if f.condition == cond.Name {
			return f.body
		}
	}
	f := &fragmentNode{condition: cond.Name, body: newNode(cond)}
	n.fragments = append(n.fragments, f)
	return f.body
}

func (n *node) print() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *node) write(b *strings.Builder) {
	first := true
	sep := func() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
	}
	for _, f := range n.fields {
		sep()
		b.WriteString(f.name)
		if len(f.arguments) > 0 {
			b.WriteByte('(')
			for i, arg := range f.arguments {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(arg.Name)
				b.WriteString(": ")
				b.WriteString(arg.Value.String())
			}
			b.WriteByte(')')
		}
		if f.child != nil {
			b.WriteString(" { ")
			f.child.write(b)
			b.WriteString(" }")
		}
	}
	for _, f := range n.fragments {
		sep()
		b.WriteString("... on ")
		b.WriteString(f.condition)
		b.WriteString(" { ")
		f.body.write(b)
		b.WriteString(" }")
	}
}

// entityKey folds the selection into an EntityKey, ignoring fragment wrapping.
func (n *node) entityKey(parent string) *ir.EntityKey {
	key := &ir.EntityKey{Parent: parent, Siblings: []string{}}
	seen := make(map[string]bool)
	var collect func(*node)
	collect = func(cur *node) {
		for _, f := range cur.fields {
			if seen[f.name] {
				continue
			}
			seen[f.name] = true
			key.Siblings = append(key.Siblings, f.name)
			if f.child != nil {
				key.NestedKeys = append(key.NestedKeys, f.child.entityKey(ir.Coordinates(cur.typeName, f.name)))
			}
		}
		for _, frag := range cur.fragments {
			collect(frag.body)
		}
	}
	collect(n)
	return key
}
