// Package config loads the composition configuration file and reads the
// subgraph schemas it points to.
package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/hanpama/supergraph/internal/federation"
	"github.com/hanpama/supergraph/internal/ir"
	"github.com/hanpama/supergraph/internal/routerconfig"
	"github.com/hanpama/supergraph/internal/typemerge"
)

const envPrefix = "SUPERGRAPH"

type Config struct {
	Version             string                    `mapstructure:"version"`
	MaxOrScopes         int                       `mapstructure:"maxOrScopes"`
	MaxTypeNestingDepth int                       `mapstructure:"maxTypeNestingDepth"`
	Subgraphs           []SubgraphConfig          `mapstructure:"subgraphs"`
	SubgraphDir         string                    `mapstructure:"subgraphDir"`
	Contracts           map[string]ContractConfig `mapstructure:"contracts"`
	Output              OutputConfig              `mapstructure:"output"`

	// dir resolves relative schema paths.
	dir string
}

type SubgraphConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
	// Schema is a path to the subgraph SDL, relative to the config file.
	Schema string `mapstructure:"schema"`
}

type ContractConfig struct {
	TagInclusions []string `mapstructure:"tagInclusions"`
	TagExclusions []string `mapstructure:"tagExclusions"`
}

type OutputConfig struct {
	RouterConfig string `mapstructure:"routerConfig"`
	Schema       string `mapstructure:"schema"`
	ClientSchema string `mapstructure:"clientSchema"`
	Format       string `mapstructure:"format"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("version", string(ir.LatestCompatibilityVersion))
	v.SetDefault("maxOrScopes", ir.DefaultMaxOrScopes)
	v.SetDefault("maxTypeNestingDepth", typemerge.DefaultMaxDepth)
	v.SetDefault("subgraphDir", "")
	v.SetDefault("output.routerConfig", "router.json")
	v.SetDefault("output.schema", "supergraph.graphql")
	v.SetDefault("output.clientSchema", "client.graphql")
	v.SetDefault("output.format", string(routerconfig.FormatJSON))
}

// Load reads the YAML or JSON file at path. Scalar settings can be overridden
// with SUPERGRAPH_ environment variables, e.g. SUPERGRAPH_OUTPUT_FORMAT.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &cfg, nil
}

// Validate checks the settings that composition itself does not report.
func (c *Config) Validate() error {
	if !ir.CompatibilityVersion(c.Version).Supported() {
		return errors.Errorf("unsupported compatibility version %q", c.Version)
	}
	if c.MaxOrScopes <= 0 {
		return errors.Errorf("maxOrScopes must be positive, got %d", c.MaxOrScopes)
	}
	if c.MaxTypeNestingDepth <= 0 {
		return errors.Errorf("maxTypeNestingDepth must be positive, got %d", c.MaxTypeNestingDepth)
	}
	if len(c.Subgraphs) == 0 && c.SubgraphDir == "" {
		return errors.New("no subgraphs configured")
	}
	for i, sg := range c.Subgraphs {
		if sg.Schema == "" {
			return errors.Errorf("subgraph %d (%q) has no schema", i, sg.Name)
		}
	}
	if _, err := routerconfig.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// Format returns the parsed output format.
func (c *Config) Format() routerconfig.Format {
	f, _ := routerconfig.ParseFormat(c.Output.Format)
	return f
}

// Options translates the settings into federation options.
func (c *Config) Options() []federation.Option {
	opts := []federation.Option{
		federation.WithVersion(ir.CompatibilityVersion(c.Version)),
		federation.WithMaxOrScopes(c.MaxOrScopes),
		federation.WithMaxTypeNestingDepth(c.MaxTypeNestingDepth),
	}
	names := make([]string, 0, len(c.Contracts))
	for name := range c.Contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cc := c.Contracts[name]
		opts = append(opts, federation.WithContract(name, federation.ContractSpec{
			TagInclusions: cc.TagInclusions,
			TagExclusions: cc.TagExclusions,
		}))
	}
	return opts
}

// Discovery returns the schema source for the configured subgraphs: the
// explicit list, followed by every *.graphql file under SubgraphDir.
func (c *Config) Discovery(ctx context.Context) (Discovery, error) {
	var sources []Discovery
	if len(c.Subgraphs) > 0 {
		files := make([]FileSubgraph, len(c.Subgraphs))
		for i, sg := range c.Subgraphs {
			files[i] = FileSubgraph{Name: sg.Name, URL: sg.URL, Path: c.resolve(sg.Schema)}
		}
		sources = append(sources, NewFileDiscovery(files...))
	}
	if c.SubgraphDir != "" {
		d, err := NewDirDiscovery(ctx, c.resolve(c.SubgraphDir))
		if err != nil {
			return nil, err
		}
		sources = append(sources, d)
	}
	return chain(sources), nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// LoadSubgraphs reads every configured subgraph schema.
func (c *Config) LoadSubgraphs(ctx context.Context) ([]federation.Subgraph, error) {
	d, err := c.Discovery(ctx)
	if err != nil {
		return nil, err
	}
	return ReadAll(ctx, d)
}

// OutputPath joins an output file name onto dir unless it is absolute.
func OutputPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}
