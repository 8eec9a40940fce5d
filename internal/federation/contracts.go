package federation

import (
	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// applyContract marks the coordinates a contract hides as inaccessible on
// every normalized subgraph. Tags are collected across all subgraphs first,
// so a tag declared in one subgraph covers the coordinate everywhere.
func applyContract(subgraphs []*ir.Subgraph, spec ContractSpec) {
	tags := collectTags(subgraphs)
	has := func(coords string, list []string) bool {
		return len(lo.Intersect(tags[coords], list)) > 0
	}

	for _, sg := range subgraphs {
		for _, def := range sg.Registry.Sorted() {
			if ir.IsBuiltinScalar(def.Name) {
				continue
			}
			typeIncluded := len(spec.TagInclusions) == 0 || has(def.Name, spec.TagInclusions)
			if !typeIncluded && !ir.IsRootType(def.Name) {
				def.Inaccessible = true
			}
			if has(def.Name, spec.TagExclusions) {
				def.Inaccessible = true
			}
			visible := func(coords string) bool {
				if has(coords, spec.TagExclusions) {
					return false
				}
				return typeIncluded || has(coords, spec.TagInclusions)
			}
			for _, f := range def.Fields {
				if !visible(f.Coordinates()) {
					f.Inaccessible = true
				}
				for _, arg := range f.Args {
					if has(argumentCoordinates(f.Coordinates(), arg.Name), spec.TagExclusions) {
						arg.Inaccessible = true
					}
				}
			}
			for _, v := range def.InputValues {
				if !visible(ir.Coordinates(def.Name, v.Name)) {
					v.Inaccessible = true
				}
			}
			for _, v := range def.EnumValues {
				if !visible(ir.Coordinates(def.Name, v.Name)) {
					v.Inaccessible = true
				}
			}
		}
	}
}

func collectTags(subgraphs []*ir.Subgraph) map[string][]string {
	tags := make(map[string][]string)
	add := func(coords string, t []string) {
		tags[coords] = lo.Union(tags[coords], t)
	}
	for _, sg := range subgraphs {
		for _, def := range sg.Registry.Sorted() {
			add(def.Name, def.Tags)
			for _, f := range def.Fields {
				add(f.Coordinates(), f.Tags)
				for _, arg := range f.Args {
					add(argumentCoordinates(f.Coordinates(), arg.Name), arg.Tags)
				}
			}
			for _, v := range def.InputValues {
				add(ir.Coordinates(def.Name, v.Name), v.Tags)
			}
			if def.Kind == language.Enum {
				for _, v := range def.EnumValues {
					add(ir.Coordinates(def.Name, v.Name), v.Tags)
				}
			}
		}
	}
	return tags
}

func argumentCoordinates(fieldCoords, arg string) string {
	return fieldCoords + "(" + arg + ":)"
}
