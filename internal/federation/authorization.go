package federation

import (
	"sort"

	"github.com/hanpama/supergraph/internal/ir"
	"github.com/hanpama/supergraph/internal/typemerge"
)

type requirement struct {
	authenticated bool
	scopes        [][]string
}

// or adds the alternative requirement of another subgraph.
func (r *requirement) or(authenticated bool, scopes [][]string) {
	r.authenticated = r.authenticated || authenticated
	r.scopes = typemerge.OrScopes(r.scopes, scopes)
}

// and returns the conjunction of r and o. Either side may be nil.
func (r *requirement) and(o *requirement) *requirement {
	out := &requirement{}
	for _, x := range []*requirement{r, o} {
		if x == nil {
			continue
		}
		out.authenticated = out.authenticated || x.authenticated
		out.scopes = typemerge.AndScopes(out.scopes, x.scopes)
	}
	if len(out.scopes) > 0 {
		out.authenticated = true
	} else {
		out.scopes = nil
	}
	return out
}

func (r *requirement) empty() bool {
	return r == nil || (!r.authenticated && len(r.scopes) == 0)
}

// mergeAuthorization combines the requirements of all subgraphs. Field
// requirements arrive already combined with their parent type's. The
// requirements of one coordinate in different subgraphs are alternatives
// and merge by OR; the type requirements of implemented interfaces are
// inherited and merge by AND.
func (m *merger) mergeAuthorization() {
	typeReqs := make(map[string]*requirement)
	fieldReqs := make(map[string]*requirement)
	upsert := func(reqs map[string]*requirement, key string, authenticated bool, scopes [][]string) {
		if !authenticated && len(scopes) == 0 {
			return
		}
		r, ok := reqs[key]
		if !ok {
			r = &requirement{}
			reqs[key] = r
		}
		r.or(authenticated, scopes)
	}
	for _, sg := range m.subgraphs {
		for _, typeName := range sortedKeys(sg.AuthorizationData) {
			data := sg.AuthorizationData[typeName]
			upsert(typeReqs, typeName, data.RequiresAuthentication, data.RequiredScopes)
			for _, fieldName := range sortedKeys(data.FieldAuthorizationData) {
				fd := data.FieldAuthorizationData[fieldName]
				upsert(fieldReqs, ir.Coordinates(typeName, fieldName), fd.RequiresAuthentication, fd.RequiredScopes)
			}
		}
	}

	var overflow []string
	for _, def := range m.reg.Sorted() {
		if !def.HasFields() {
			continue
		}
		var inherited *requirement
		for _, iface := range def.Interfaces {
			inherited = inherited.and(typeReqs[iface])
		}
		typeReq := typeReqs[def.Name].and(inherited)
		if len(typeReq.scopes) > m.opts.maxOrScopes {
			overflow = append(overflow, def.Name)
		}
		var data *ir.AuthorizationData
		for _, f := range def.OrderedFields() {
			req := fieldReqs[f.Coordinates()].and(inherited)
			if req.empty() {
				continue
			}
			if len(req.scopes) > m.opts.maxOrScopes {
				overflow = append(overflow, f.Coordinates())
				continue
			}
			if data == nil {
				data = ir.NewAuthorizationData(def.Name)
				data.RequiresAuthentication = typeReq.authenticated
				data.RequiredScopes = typeReq.scopes
			}
			fd := data.Field(f.Name)
			fd.RequiresAuthentication = req.authenticated
			fd.RequiredScopes = req.scopes
		}
		if data != nil {
			m.auth[def.Name] = data
		}
	}
	if len(overflow) > 0 {
		sort.Strings(overflow)
		m.addError(ir.ViolationOrScopes(m.opts.maxOrScopes, overflow))
	}
}
