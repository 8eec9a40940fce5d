package normalization

import (
	"fmt"
	"strings"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// resolveSubscriptionFilters parses @openfed__subscriptionFilter conditions.
// It runs after all facets are applied so that field paths see them.
func (b *builder) resolveSubscriptionFilters() {
	for _, u := range b.usesOf(ir.DirectiveSubscriptionFilter) {
		b.applySubscriptionFilter(u, u.args.(subscriptionFilterArgs))
	}
}

func (b *builder) applySubscriptionFilter(u *directiveUse, args subscriptionFilterArgs) {
	if u.site.parent.Name != ir.SubscriptionTypeName {
		b.addError(ir.ViolationSubscriptionFilterSite(u.site.coords).At(u.position))
		return
	}
	cond, problem := b.filterCondition(u.site.field, args.condition, 1)
	if problem != "" {
		b.addError(ir.ViolationSubscriptionFilter(u.site.coords, problem).At(u.position))
		return
	}
	b.filters[u.site.coords] = cond
}

func (b *builder) filterCondition(field *ir.FieldDefinition, v *language.Value, depth int) (*ir.SubscriptionFilterCondition, string) {
	if depth > ir.MaxSubscriptionFilterDepth {
		return nil, fmt.Sprintf("conditions are nested deeper than %d levels", ir.MaxSubscriptionFilterDepth)
	}
	if v == nil || v.Kind != language.ObjectValue {
		return nil, "a condition must be an input object"
	}
	if len(v.Children) != 1 {
		return nil, "a condition must define exactly one of AND, IN, NOT or OR"
	}
	child := v.Children[0]
	switch child.Name {
	case "AND", "OR":
		if child.Value.Kind != language.ListValue {
			return nil, child.Name + " must be a list of conditions"
		}
		n := len(child.Value.Children)
		if n < ir.MinSubscriptionFilterListLength || n > ir.MaxSubscriptionFilterListLength {
			return nil, fmt.Sprintf("%s must list between %d and %d conditions, got %d",
				child.Name, ir.MinSubscriptionFilterListLength, ir.MaxSubscriptionFilterListLength, n)
		}
		list := make([]*ir.SubscriptionFilterCondition, 0, n)
		for _, item := range child.Value.Children {
			c, problem := b.filterCondition(field, item.Value, depth+1)
			if problem != "" {
				return nil, problem
			}
			list = append(list, c)
		}
		if child.Name == "AND" {
			return &ir.SubscriptionFilterCondition{And: list}, ""
		}
		return &ir.SubscriptionFilterCondition{Or: list}, ""
	case "NOT":
		c, problem := b.filterCondition(field, child.Value, depth+1)
		if problem != "" {
			return nil, problem
		}
		return &ir.SubscriptionFilterCondition{Not: c}, ""
	case "IN":
		in, problem := b.filterFieldCondition(field, child.Value)
		if problem != "" {
			return nil, problem
		}
		return &ir.SubscriptionFilterCondition{In: in}, ""
	default:
		return nil, fmt.Sprintf("unknown condition %q", child.Name)
	}
}

func (b *builder) filterFieldCondition(field *ir.FieldDefinition, v *language.Value) (*ir.SubscriptionFieldCondition, string) {
	if v.Kind != language.ObjectValue {
		return nil, "IN must be an input object"
	}
	var (
		fieldPath string
		values    *language.Value
	)
	for _, c := range v.Children {
		switch c.Name {
		case "fieldPath":
			fieldPath = c.Value.Raw
		case "values":
			values = c.Value
		default:
			return nil, fmt.Sprintf("IN defines unknown field %q", c.Name)
		}
	}
	if fieldPath == "" {
		return nil, "IN requires a non-empty fieldPath"
	}
	if values == nil {
		return nil, "IN requires values"
	}
	path := strings.Split(fieldPath, ".")
	if problem := b.checkFilterPath(field, path); problem != "" {
		return nil, problem
	}
	in := &ir.SubscriptionFieldCondition{FieldPath: path, Values: []string{}}
	items := []*language.Value{values}
	if values.Kind == language.ListValue {
		items = items[:0]
		for _, c := range values.Children {
			items = append(items, c.Value)
		}
	}
	for _, item := range items {
		switch item.Kind {
		case language.ListValue, language.ObjectValue, language.Variable:
			return nil, "IN values must be scalar literals"
		}
		in.Values = append(in.Values, item.Raw)
	}
	return in, ""
}

// checkFilterPath resolves path against the response type of field. It must
// end in a leaf field.
func (b *builder) checkFilterPath(field *ir.FieldDefinition, path []string) string {
	current := field.Type.NamedTypeName()
	for _, segment := range path {
		def := b.reg.Lookup(current)
		if def == nil || !def.HasFields() {
			return fmt.Sprintf("field path %q selects %q on %q, which has no fields", strings.Join(path, "."), segment, current)
		}
		f := def.Fields[segment]
		if f == nil {
			return fmt.Sprintf("field path %q references undefined field %q on %q", strings.Join(path, "."), segment, current)
		}
		if f.Inaccessible {
			return fmt.Sprintf("field path %q references inaccessible field %q", strings.Join(path, "."), f.Coordinates())
		}
		current = f.Type.NamedTypeName()
	}
	if def := b.reg.Lookup(current); def != nil && !def.IsLeaf() {
		return fmt.Sprintf("field path %q must end in a leaf field", strings.Join(path, "."))
	}
	return ""
}
