package ir

// CompatibilityVersion selects versioned composition behavior.
type CompatibilityVersion string

const (
	CompatibilityVersion1 CompatibilityVersion = "1"

	LatestCompatibilityVersion = CompatibilityVersion1
)

func (v CompatibilityVersion) Supported() bool {
	return v == CompatibilityVersion1
}

// EntityModel distinguishes the legacy federation entity model from the current one.
type EntityModel int

const (
	EntityModelV1 EntityModel = 1
	EntityModelV2 EntityModel = 2
)
