package ir

// Subgraph is the normalized form of one subgraph document.
type Subgraph struct {
	Name        string      `json:"name"`
	URL         string      `json:"url,omitempty"`
	EntityModel EntityModel `json:"entityModel"`

	Registry             *Registry                        `json:"-"`
	ConfigurationData    map[string]*ConfigurationData    `json:"configurationData"`
	AuthorizationData    map[string]*AuthorizationData    `json:"authorizationData,omitempty"`
	ConditionalFieldData map[string]*ConditionalFieldData `json:"conditionalFieldData,omitempty"`
	// SubscriptionFilters is keyed by field coordinates.
	SubscriptionFilters map[string]*SubscriptionFilterCondition `json:"subscriptionFilters,omitempty"`
	// Operation types as named in the document before renaming.
	OperationTypes map[string]string `json:"operationTypes,omitempty"`
}

// IsRootType reports whether name is one of the canonical operation type names.
func IsRootType(name string) bool {
	return name == QueryTypeName || name == MutationTypeName || name == SubscriptionTypeName
}

const (
	QueryTypeName        = "Query"
	MutationTypeName     = "Mutation"
	SubscriptionTypeName = "Subscription"
)

var RootTypeNames = []string{QueryTypeName, MutationTypeName, SubscriptionTypeName}
