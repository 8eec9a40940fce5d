package ir

const (
	StringScalar  = "String"
	IntScalar     = "Int"
	FloatScalar   = "Float"
	BooleanScalar = "Boolean"
	IDScalar      = "ID"
)

var builtinScalars = map[string]bool{
	StringScalar:  true,
	IntScalar:     true,
	FloatScalar:   true,
	BooleanScalar: true,
	IDScalar:      true,
}

func IsBuiltinScalar(name string) bool { return builtinScalars[name] }

// IsReservedName reports whether name uses the introspection prefix.
func IsReservedName(name string) bool {
	return len(name) >= 2 && name[:2] == "__"
}
