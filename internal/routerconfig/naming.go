package routerconfig

import (
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

func protoFieldName(name string) protoreflect.Name {
	return protoreflect.Name(snakeCase(name))
}

// snakeCase converts a lowerCamel name to snake_case.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
