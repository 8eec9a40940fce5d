package federation

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// instance is the definition of one type in one subgraph.
type instance struct {
	subgraph *ir.Subgraph
	def      *ir.ParentDefinition
}

type enumUsage struct {
	input  bool
	output bool
}

// merger builds the federated registry. Subgraphs are visited in name order
// so that the merged graph does not depend on input order.
type merger struct {
	opts      options
	subgraphs []*ir.Subgraph
	reg       *ir.Registry
	instances map[string][]instance
	enumUsage map[string]enumUsage

	// overridden lists, per field coordinates, the subgraphs whose instance
	// was taken over by @override.
	overridden map[string][]string
	// implicitKeys holds the keys granted to a subgraph by subgraph and type name.
	implicitKeys map[string]map[string][]*ir.KeyDefinition
	auth         map[string]*ir.AuthorizationData

	errors   []*ir.Violation
	warnings []*ir.Violation
}

func newMerger(subgraphs []*ir.Subgraph, o options) *merger {
	sorted := append([]*ir.Subgraph(nil), subgraphs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &merger{
		opts:         o,
		subgraphs:    sorted,
		reg:          ir.NewRegistry(),
		instances:    make(map[string][]instance),
		enumUsage:    make(map[string]enumUsage),
		overridden:   make(map[string][]string),
		implicitKeys: make(map[string]map[string][]*ir.KeyDefinition),
		auth:         make(map[string]*ir.AuthorizationData),
	}
}

func (m *merger) addError(v ...*ir.Violation) {
	m.errors = append(m.errors, v...)
}

func (m *merger) addWarning(v ...*ir.Violation) {
	m.warnings = append(m.warnings, v...)
}

func (m *merger) merge() {
	m.gather()
	m.mergeParents()
	m.collectEnumUsage()
	for _, def := range m.reg.Sorted() {
		switch def.Kind {
		case language.Object, language.Interface:
			m.mergeFields(def)
		case language.InputObject:
			m.mergeInputObject(def)
		case language.Enum:
			m.mergeEnum(def)
		}
	}
	m.mergeKeys()
	m.propagateInterfaceObjects()
	m.checkQueryRoot()
	m.mergeAuthorization()
}

func (m *merger) gather() {
	for _, sg := range m.subgraphs {
		for _, def := range sg.Registry.Sorted() {
			m.instances[def.Name] = append(m.instances[def.Name], instance{subgraph: sg, def: def})
		}
	}
}

// mergeParents creates one federated definition per type name and merges
// the type-level facets and memberships.
func (m *merger) mergeParents() {
	for _, name := range sortedKeys(m.instances) {
		insts := m.instances[name]
		kind, ok := m.resolveKind(name, insts)
		if !ok {
			continue
		}
		def := &ir.ParentDefinition{Name: name, Kind: kind}
		switch kind {
		case language.Object, language.Interface:
			def.Fields = make(map[string]*ir.FieldDefinition)
		case language.InputObject:
			def.InputValues = make(map[string]*ir.InputValueDefinition)
		case language.Enum:
			def.EnumValues = make(map[string]*ir.EnumValueDefinition)
		}
		orphans := 0
		for _, in := range insts {
			d := in.def
			def.Subgraphs = lo.Union(def.Subgraphs, []string{in.subgraph.Name})
			if def.Description == "" {
				def.Description = d.Description
			}
			if def.Position == nil {
				def.Position = d.Position
			}
			if def.SpecifiedByURL == "" {
				def.SpecifiedByURL = d.SpecifiedByURL
			}
			def.Tags = lo.Union(def.Tags, d.Tags)
			def.Inaccessible = def.Inaccessible || d.Inaccessible
			def.IsEntity = def.IsEntity || d.IsEntity
			if !(d.IsInterfaceObject && kind == language.Interface) {
				def.Interfaces = lo.Union(def.Interfaces, d.Interfaces)
			}
			def.Members = lo.Union(def.Members, d.Members)
			if d.IsExtensionOrphan {
				orphans++
			}
		}
		if orphans == len(insts) && !def.IsEntity && !ir.IsRootType(name) {
			m.addError(ir.ViolationExtensionWithoutBase(string(kind), name).At(def.Position))
			continue
		}
		m.reg.Add(def)
	}
}

// resolveKind returns the federated kind of a type. Object types marked
// @interfaceObject merge into the interface of the same name.
func (m *merger) resolveKind(name string, insts []instance) (language.DefinitionKind, bool) {
	kinds := make(map[string]string, len(insts))
	subgraphs := make([]string, 0, len(insts))
	distinct := make(map[language.DefinitionKind]bool)
	hasInterface := false
	for _, in := range insts {
		kind := in.def.Kind
		kinds[in.subgraph.Name] = string(kind)
		subgraphs = append(subgraphs, in.subgraph.Name)
		if in.def.IsInterfaceObject {
			kind = language.Interface
		} else if kind == language.Interface {
			hasInterface = true
		}
		distinct[kind] = true
	}
	if len(distinct) > 1 {
		m.addError(ir.ViolationParentKind(name, kinds, subgraphs).At(insts[0].def.Position))
		return "", false
	}
	kind := insts[0].def.Kind
	if distinct[language.Interface] {
		kind = language.Object
		if hasInterface {
			kind = language.Interface
		}
	}
	return kind, true
}

func (m *merger) collectEnumUsage() {
	mark := func(t *ir.TypeExpr, input bool) {
		name := t.NamedTypeName()
		def := m.reg.Lookup(name)
		if def == nil || def.Kind != language.Enum {
			return
		}
		u := m.enumUsage[name]
		if input {
			u.input = true
		} else {
			u.output = true
		}
		m.enumUsage[name] = u
	}
	for _, name := range sortedKeys(m.instances) {
		for _, in := range m.instances[name] {
			for _, f := range in.def.Fields {
				mark(f.Type, false)
				for _, arg := range f.Args {
					mark(arg.Type, true)
				}
			}
			for _, v := range in.def.InputValues {
				mark(v.Type, true)
			}
		}
	}
}

// checkQueryRoot requires at least one accessible query field.
func (m *merger) checkQueryRoot() {
	query := m.reg.Lookup(ir.QueryTypeName)
	if query == nil || !lo.SomeBy(query.OrderedFields(), func(f *ir.FieldDefinition) bool { return !f.Inaccessible }) {
		m.addError(ir.ViolationNoQueryType())
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
