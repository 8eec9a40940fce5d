// Package routerconfig assembles the artifact a router loads to serve a
// federated graph and encodes it as protobuf binary or JSON. The protobuf
// schema is built at runtime; RenderProto prints it as a .proto file.
package routerconfig

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/hanpama/supergraph/internal/federation"
	"github.com/hanpama/supergraph/internal/ir"
)

// Config is the router configuration of one federated graph.
type Config struct {
	// Version is a digest of the encoded configuration without the version.
	Version             string
	FederatedSDL        string
	ClientSDL           string
	Subgraphs           []*Subgraph
	FieldConfigurations []*ir.FieldConfiguration
}

type Subgraph struct {
	Name              string
	URL               string
	ConfigurationData map[string]*ir.ConfigurationData
}

// Build assembles the configuration of a successful composition.
func Build(res *federation.Result) (*Config, error) {
	if !res.Success() {
		return nil, errors.Wrap(res.Err(), "cannot build router config from a failed composition")
	}
	c := &Config{
		FederatedSDL:        res.FederatedSDL,
		ClientSDL:           res.ClientSDL,
		FieldConfigurations: res.FieldConfigurations,
	}
	for _, sg := range res.Subgraphs {
		c.Subgraphs = append(c.Subgraphs, &Subgraph{
			Name:              sg.Name,
			URL:               sg.URL,
			ConfigurationData: sg.ConfigurationData,
		})
	}
	version, err := computeVersion(c)
	if err != nil {
		return nil, err
	}
	c.Version = version
	return c, nil
}

func computeVersion(c *Config) (string, error) {
	unversioned := *c
	unversioned.Version = ""
	data, err := Encode(&unversioned, FormatBinary)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
