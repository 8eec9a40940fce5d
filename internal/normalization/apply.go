package normalization

import (
	"sort"

	"github.com/hanpama/supergraph/internal/ir"
	"github.com/hanpama/supergraph/internal/typemerge"
)

type authRequirement struct {
	authenticated bool
	scopes        [][]string
}

// applyDirectives applies the facets that need no cross-type analysis.
func (b *builder) applyDirectives() {
	for _, u := range b.uses {
		site := u.site
		switch args := u.args.(type) {
		case flagArgs:
			b.applyFlag(u)
		case overrideArgs:
			if args.from == b.name {
				b.addError(ir.ViolationOverrideSelf(site.coords, b.name).At(u.position))
				continue
			}
			site.field.Override = args.from
		case tagArgs:
			b.applyTag(site, args.name)
		case deprecatedArgs:
			dep := &ir.Deprecation{Reason: args.reason}
			switch {
			case site.value != nil:
				site.value.Deprecation = dep
			case site.enumValue != nil:
				site.enumValue.Deprecation = dep
			case site.field != nil:
				site.field.Deprecation = dep
			}
		case specifiedByArgs:
			site.parent.SpecifiedByURL = args.url
		case scopesArgs:
			b.authFor(site).scopes = typemerge.DedupScopes(args.scopes)
		case eventArgs:
			b.applyEvent(u, args)
		}
	}
}

func (b *builder) applyFlag(u *directiveUse) {
	site := u.site
	switch u.kind {
	case ir.DirectiveAuthenticated:
		b.authFor(site).authenticated = true
	case ir.DirectiveExtends:
		site.parent.IsExtension = true
	case ir.DirectiveExternal:
		for _, f := range b.siteFields(site) {
			f.External = true
		}
	case ir.DirectiveShareable:
		for _, f := range b.siteFields(site) {
			f.Shareable = true
		}
	case ir.DirectiveInaccessible:
		switch {
		case site.value != nil:
			site.value.Inaccessible = true
		case site.enumValue != nil:
			site.enumValue.Inaccessible = true
		case site.field != nil:
			site.field.Inaccessible = true
		default:
			site.parent.Inaccessible = true
		}
	case ir.DirectiveInterfaceObject:
		site.parent.IsInterfaceObject = true
	}
}

// siteFields returns the field of a field site, or the fields declared by
// the definition node of a type site.
func (b *builder) siteFields(site *directiveSite) []*ir.FieldDefinition {
	if site.field != nil {
		return []*ir.FieldDefinition{site.field}
	}
	var out []*ir.FieldDefinition
	for _, f := range site.node.Fields {
		if fd := site.parent.Fields[f.Name]; fd != nil && b.fieldNodes[fd.Coordinates()] == f {
			out = append(out, fd)
		}
	}
	return out
}

func (b *builder) applyTag(site *directiveSite, name string) {
	add := func(tags []string) []string {
		for _, t := range tags {
			if t == name {
				return tags
			}
		}
		return append(tags, name)
	}
	switch {
	case site.value != nil:
		site.value.Tags = add(site.value.Tags)
	case site.enumValue != nil:
		site.enumValue.Tags = add(site.enumValue.Tags)
	case site.field != nil:
		site.field.Tags = add(site.field.Tags)
	default:
		site.parent.Tags = add(site.parent.Tags)
	}
}

func (b *builder) authFor(site *directiveSite) *authRequirement {
	m, key := b.typeAuth, site.parent.Name
	if site.field != nil {
		m, key = b.fieldAuth, site.coords
	}
	req, ok := m[key]
	if !ok {
		req = &authRequirement{}
		m[key] = req
	}
	return req
}

var eventRootTypes = map[ir.EventType]string{
	ir.EventTypePublish:   ir.MutationTypeName,
	ir.EventTypeRequest:   ir.QueryTypeName,
	ir.EventTypeSubscribe: ir.SubscriptionTypeName,
}

func (b *builder) applyEvent(u *directiveUse, args eventArgs) {
	expected := eventRootTypes[args.config.Type]
	if u.site.parent.Name != expected {
		b.addError(ir.ViolationEventLocation(u.kind.String(), u.site.coords, expected).At(u.position))
		return
	}
	cfg := args.config
	cfg.FieldName = u.site.field.Name
	b.events[expected] = append(b.events[expected], &cfg)
}

// resolveAuthorization computes the effective requirement of every field:
// its own, its parent type's and its leaf return type's, combined as a
// conjunction.
func (b *builder) resolveAuthorization() {
	var overflow []string
	for _, def := range b.reg.Sorted() {
		if !def.HasFields() {
			continue
		}
		typeReq := b.typeAuth[def.Name]
		for _, f := range def.OrderedFields() {
			reqs := []*authRequirement{typeReq, b.fieldAuth[f.Coordinates()]}
			if named := b.reg.Lookup(f.Type.NamedTypeName()); named != nil && named.IsLeaf() {
				reqs = append(reqs, b.typeAuth[named.Name])
			}
			effective, ok := combineRequirements(reqs)
			if !ok {
				continue
			}
			if len(effective.scopes) > b.opts.maxOrScope {
				overflow = append(overflow, f.Coordinates())
				continue
			}
			data, exists := b.auth[def.Name]
			if !exists {
				data = ir.NewAuthorizationData(def.Name)
				if typeReq != nil {
					data.RequiresAuthentication = typeReq.authenticated
					data.RequiredScopes = typeReq.scopes
				}
				b.auth[def.Name] = data
			}
			fd := data.Field(f.Name)
			fd.RequiresAuthentication = effective.authenticated
			fd.RequiredScopes = effective.scopes
		}
	}
	if len(overflow) > 0 {
		sort.Strings(overflow)
		b.addError(ir.ViolationOrScopes(b.opts.maxOrScope, overflow))
	}
}

func combineRequirements(reqs []*authRequirement) (*authRequirement, bool) {
	out := &authRequirement{}
	found := false
	for _, r := range reqs {
		if r == nil {
			continue
		}
		found = true
		out.authenticated = out.authenticated || r.authenticated
		out.scopes = typemerge.AndScopes(out.scopes, r.scopes)
	}
	if len(out.scopes) > 0 {
		out.authenticated = true
	} else {
		out.scopes = nil
	}
	return out, found
}

// checkAbstractReturnTypes warns about fields returning an abstract type
// that has no possible types in this subgraph.
func (b *builder) checkAbstractReturnTypes() {
	for _, def := range b.reg.Sorted() {
		if !def.HasFields() {
			continue
		}
		for _, f := range def.OrderedFields() {
			named := b.reg.Lookup(f.Type.NamedTypeName())
			if named != nil && named.IsAbstract() && len(b.reg.PossibleTypes(named)) == 0 {
				b.addWarning(ir.ViolationAbstractWithoutMembers(f.Coordinates(), named.Name).At(f.Position))
			}
		}
	}
}
