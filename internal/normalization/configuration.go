package normalization

import (
	"sort"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// buildConfiguration finalizes field facets and emits the routing
// configuration of every type with fields.
func (b *builder) buildConfiguration() {
	for _, def := range b.reg.Sorted() {
		if !def.HasFields() {
			continue
		}
		cfg := &ir.ConfigurationData{
			TypeName:          def.Name,
			FieldNames:        []string{},
			IsRootNode:        ir.IsRootType(def.Name) || def.IsEntity,
			IsInterfaceObject: def.IsInterfaceObject,
			Provides:          b.provides[def.Name],
			Requires:          b.requires[def.Name],
			Events:            b.events[def.Name],
		}
		for _, f := range def.OrderedFields() {
			if b.entityModel == ir.EntityModelV1 {
				f.Shareable = true
			}
			if f.External {
				f.ResolvedBy = nil
				cfg.ExternalFieldNames = append(cfg.ExternalFieldNames, f.Name)
				continue
			}
			cfg.FieldNames = append(cfg.FieldNames, f.Name)
		}
		for _, k := range def.Keys {
			cfg.Keys = append(cfg.Keys, &ir.RequiredFieldConfiguration{
				SelectionSet:          k.FieldSet,
				DisableEntityResolver: k.DisableEntityResolver,
				Conditions:            k.Conditions,
			})
		}
		if def.Kind == language.Interface && def.IsEntity {
			for _, impl := range b.reg.Implementations(def.Name) {
				if impl.Kind == language.Object {
					cfg.EntityInterfaceConcreteTypeNames = append(cfg.EntityInterfaceConcreteTypeNames, impl.Name)
				}
			}
			sort.Strings(cfg.EntityInterfaceConcreteTypeNames)
		}
		b.config[def.Name] = cfg
	}
}
