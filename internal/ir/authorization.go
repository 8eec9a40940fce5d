package ir

// DefaultMaxOrScopes bounds the OR-list length of merged scope requirements.
const DefaultMaxOrScopes = 16

// AuthorizationData holds the authorization requirements of one type and its fields.
// RequiredScopes is a disjunction of conjunctions.
type AuthorizationData struct {
	TypeName               string                             `json:"typeName"`
	RequiresAuthentication bool                               `json:"requiresAuthentication,omitempty"`
	RequiredScopes         [][]string                         `json:"requiredScopes,omitempty"`
	FieldAuthorizationData map[string]*FieldAuthorizationData `json:"fieldAuthorizationData,omitempty"`
}

type FieldAuthorizationData struct {
	FieldName              string     `json:"fieldName"`
	RequiresAuthentication bool       `json:"requiresAuthentication,omitempty"`
	RequiredScopes         [][]string `json:"requiredScopes,omitempty"`
}

func NewAuthorizationData(typeName string) *AuthorizationData {
	return &AuthorizationData{TypeName: typeName, FieldAuthorizationData: make(map[string]*FieldAuthorizationData)}
}

// Field returns the field entry, creating it on first use.
func (a *AuthorizationData) Field(name string) *FieldAuthorizationData {
	f, ok := a.FieldAuthorizationData[name]
	if !ok {
		f = &FieldAuthorizationData{FieldName: name}
		a.FieldAuthorizationData[name] = f
	}
	return f
}
