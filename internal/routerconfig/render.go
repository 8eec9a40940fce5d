package routerconfig

import (
	"bytes"

	"github.com/jhump/protoreflect/v2/protoprint"
	"github.com/pkg/errors"
)

// RenderProto prints the router configuration schema as a .proto file.
func RenderProto() (string, error) {
	var buf bytes.Buffer
	pp := protoprint.Printer{}
	if err := pp.PrintProtoFile(Descriptor(), &buf); err != nil {
		return "", errors.Wrap(err, "render router config proto")
	}
	return buf.String(), nil
}
