package federation

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// projectConfiguration brings the merged entity data back down to the
// configuration of every subgraph.
func (m *merger) projectConfiguration() {
	for _, sg := range m.subgraphs {
		for _, typeName := range sortedKeys(sg.ConfigurationData) {
			cfg := sg.ConfigurationData[typeName]
			def := m.reg.Lookup(typeName)
			if def == nil {
				continue
			}
			cfg.FieldNames = lo.Filter(cfg.FieldNames, func(name string, _ int) bool {
				return !lo.Contains(m.overridden[ir.Coordinates(typeName, name)], sg.Name)
			})
			for _, key := range m.implicitKeys[sg.Name][typeName] {
				cfg.Keys = append(cfg.Keys, &ir.RequiredFieldConfiguration{
					SelectionSet:          key.FieldSet,
					DisableEntityResolver: true,
				})
			}
			if def.Kind == language.Interface && (cfg.IsInterfaceObject || def.IsEntity) {
				names := lo.Map(m.reg.Implementations(typeName), func(impl *ir.ParentDefinition, _ int) string {
					return impl.Name
				})
				sort.Strings(names)
				cfg.EntityInterfaceConcreteTypeNames = names
			}
			if len(cfg.Keys) > 0 {
				cfg.IsRootNode = true
			}
		}
	}
}

// fieldConfigurations lists the fields the router needs to know about:
// those taking arguments, requiring authorization or carrying a
// subscription filter.
func (m *merger) fieldConfigurations() []*ir.FieldConfiguration {
	filters := make(map[string]*ir.SubscriptionFilterCondition)
	for _, sg := range m.subgraphs {
		for coords, cond := range sg.SubscriptionFilters {
			if _, ok := filters[coords]; !ok {
				filters[coords] = cond
			}
		}
	}
	var out []*ir.FieldConfiguration
	for _, def := range m.reg.Sorted() {
		if !def.HasFields() {
			continue
		}
		for _, f := range def.OrderedFields() {
			fc := &ir.FieldConfiguration{
				TypeName:       def.Name,
				FieldName:      f.Name,
				ArgumentNames:  []string{},
				RequiredScopes: [][]string{},
			}
			for _, arg := range f.OrderedArgs() {
				fc.ArgumentNames = append(fc.ArgumentNames, arg.Name)
			}
			if data := m.auth[def.Name]; data != nil {
				if fd := data.FieldAuthorizationData[f.Name]; fd != nil {
					fc.RequiresAuthentication = fd.RequiresAuthentication
					if fd.RequiredScopes != nil {
						fc.RequiredScopes = fd.RequiredScopes
					}
				}
			}
			fc.SubscriptionFilterCondition = filters[f.Coordinates()]
			if len(fc.ArgumentNames) == 0 && !fc.RequiresAuthentication && fc.SubscriptionFilterCondition == nil {
				continue
			}
			out = append(out, fc)
		}
	}
	return out
}
