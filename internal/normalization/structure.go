package normalization

import (
	"fmt"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// checkDefinedMembers rejects non-extension types without fields, members or values.
func (b *builder) checkDefinedMembers() {
	for _, def := range b.reg.Sorted() {
		if def.IsExtensionOrphan || ir.IsBuiltinScalar(def.Name) {
			continue
		}
		empty := false
		switch def.Kind {
		case language.Object, language.Interface:
			empty = len(def.Fields) == 0
		case language.InputObject:
			empty = len(def.InputValues) == 0
		case language.Enum:
			empty = len(def.EnumValues) == 0
		case language.Union:
			empty = len(def.Members) == 0
		}
		if empty {
			b.addError(ir.ViolationNoMembers(string(def.Kind), def.Name).At(def.Position))
		}
	}
}

func (b *builder) validateReferences() {
	for _, def := range b.reg.Sorted() {
		switch def.Kind {
		case language.Object, language.Interface:
			for _, f := range def.OrderedFields() {
				b.checkOutputType(f.Type, f.Coordinates(), f.Position)
				for _, arg := range f.OrderedArgs() {
					b.checkInputType(arg.Type, f.Coordinates()+"("+arg.Name+":)", arg.Position)
				}
			}
			for _, name := range def.Interfaces {
				iface := b.reg.Lookup(name)
				switch {
				case iface == nil:
					b.addError(ir.ViolationInterfaceNotFound(def.Name, name).At(def.Position))
				case iface.Kind != language.Interface:
					b.addError(ir.ViolationNotAnInterface(def.Name, name).At(def.Position))
				}
			}
		case language.InputObject:
			for _, v := range def.OrderedInputValues() {
				b.checkInputType(v.Type, ir.Coordinates(def.Name, v.Name), v.Position)
			}
		case language.Union:
			for _, name := range def.Members {
				if member := b.reg.Lookup(name); member == nil || member.Kind != language.Object {
					b.addError(ir.ViolationUnionMemberNotObject(def.Name, name).At(def.Position))
				}
			}
		}
	}
	for _, name := range sortedKeys(b.customDirectives) {
		d := b.customDirectives[name]
		for _, arg := range d.Arguments {
			b.checkInputType(b.typeExpr(arg.Type), "@"+name+"("+arg.Name+":)", arg.Position)
		}
	}
}

func (b *builder) checkOutputType(t *ir.TypeExpr, coords string, pos *language.Position) {
	name := t.NamedTypeName()
	def := b.reg.Lookup(name)
	switch {
	case def == nil:
		b.addError(ir.ViolationTypeNotFound(name, coords).At(pos))
	case !def.IsOutputType():
		b.addError(ir.ViolationTypeNotOutput(name, coords).At(pos))
	}
}

func (b *builder) checkInputType(t *ir.TypeExpr, coords string, pos *language.Position) {
	name := t.NamedTypeName()
	if ir.IsSupportTypeName(name) {
		return
	}
	def := b.reg.Lookup(name)
	switch {
	case def == nil:
		b.addError(ir.ViolationTypeNotFound(name, coords).At(pos))
	case !def.IsInputType():
		b.addError(ir.ViolationTypeNotInput(name, coords).At(pos))
	}
}

// validateImplementations checks every implemented interface and reports all
// mismatches of one type in a single violation.
func (b *builder) validateImplementations() {
	for _, def := range b.reg.Sorted() {
		if !def.HasFields() || len(def.Interfaces) == 0 {
			continue
		}
		var issues []ir.ImplementationIssue
		for _, name := range def.Interfaces {
			iface := b.reg.Lookup(name)
			if iface == nil || iface.Kind != language.Interface {
				continue
			}
			for _, transitive := range iface.Interfaces {
				if transitive != def.Name && !def.Implements(transitive) {
					issues = append(issues, ir.ImplementationIssue{
						Interface: name,
						Problem:   fmt.Sprintf("must also implement %q", transitive),
					})
				}
			}
			for _, ifield := range iface.OrderedFields() {
				issues = append(issues, b.fieldImplementationIssues(def, name, ifield)...)
			}
		}
		if len(issues) > 0 {
			b.addError(ir.ViolationInterfaceImplementation(def.Name, issues).At(def.Position))
		}
	}
}

func (b *builder) fieldImplementationIssues(def *ir.ParentDefinition, iface string, ifield *ir.FieldDefinition) []ir.ImplementationIssue {
	issue := func(format string, args ...any) ir.ImplementationIssue {
		return ir.ImplementationIssue{Interface: iface, Field: ifield.Name, Problem: fmt.Sprintf(format, args...)}
	}
	f := def.Fields[ifield.Name]
	if f == nil {
		return []ir.ImplementationIssue{issue("field is not defined")}
	}
	var issues []ir.ImplementationIssue
	if !b.isSubtype(f.Type, ifield.Type) {
		issues = append(issues, issue("type %s is not a subtype of %s", f.Type, ifield.Type))
	}
	for _, iarg := range ifield.OrderedArgs() {
		arg := f.Args[iarg.Name]
		switch {
		case arg == nil:
			issues = append(issues, issue("argument %q is not defined", iarg.Name))
		case !arg.Type.Equal(iarg.Type):
			issues = append(issues, issue("argument %q has type %s, expected %s", iarg.Name, arg.Type, iarg.Type))
		}
	}
	for _, arg := range f.OrderedArgs() {
		if ifield.Args[arg.Name] == nil && arg.Type.IsNonNull() && arg.DefaultValue == nil {
			issues = append(issues, issue("additional argument %q must be optional", arg.Name))
		}
	}
	return issues
}

// isSubtype reports whether a value of type t is valid where super is expected.
func (b *builder) isSubtype(t, super *ir.TypeExpr) bool {
	if super.IsNonNull() {
		return t.IsNonNull() && b.isSubtype(t.OfType, super.OfType)
	}
	if t.IsNonNull() {
		return b.isSubtype(t.OfType, super)
	}
	if super.Kind == ir.TypeExprKindList {
		return t.Kind == ir.TypeExprKindList && b.isSubtype(t.OfType, super.OfType)
	}
	if t.Kind != ir.TypeExprKindNamed {
		return false
	}
	if t.Named == super.Named {
		return true
	}
	superDef, def := b.reg.Lookup(super.Named), b.reg.Lookup(t.Named)
	if superDef == nil || def == nil {
		return false
	}
	switch superDef.Kind {
	case language.Union:
		return superDef.HasMember(def.Name)
	case language.Interface:
		return def.HasFields() && def.Implements(superDef.Name)
	}
	return false
}
