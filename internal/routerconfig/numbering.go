package routerconfig

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	maxFieldNumber     = 31767
	reservedRangeStart = 19000
	reservedRangeEnd   = 19999
	firstAfterReserved = reservedRangeEnd + 1
)

// allocateFieldNumbers derives field numbers from field names so that adding
// a field never renumbers the existing ones.
func allocateFieldNumbers(fields []*protobuilder.FieldBuilder) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f.Name())
	}
	for i, n := range hashNumbers(names) {
		fields[i].SetNumber(protoreflect.FieldNumber(n))
	}
}

// hashNumbers maps every name to a number in 1..maxFieldNumber outside the
// reserved range. Collisions step linearly; names are processed in sorted
// order so the result does not depend on declaration order.
func hashNumbers(names []string) []int {
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return names[order[i]] < names[order[j]] })

	out := make([]int, len(names))
	used := make(map[int]bool, len(names))
	for _, idx := range order {
		cand := int(xxhash.Sum64String(names[idx])%maxFieldNumber) + 1
		for {
			if cand >= reservedRangeStart && cand <= reservedRangeEnd {
				cand = firstAfterReserved
			}
			if !used[cand] {
				break
			}
			cand++
			if cand > maxFieldNumber {
				cand = 1
			}
		}
		used[cand] = true
		out[idx] = cand
	}
	return out
}
