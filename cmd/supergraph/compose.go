package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hanpama/supergraph/composition"
	"github.com/hanpama/supergraph/internal/config"
	"github.com/hanpama/supergraph/internal/routerconfig"
)

func newComposeCmd(g *globalFlags) *cobra.Command {
	var (
		configPath string
		outDir     string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Federate the configured subgraphs and write the router configuration and schemas",
		Example: "supergraph compose --config supergraph.yaml --out-dir build\n" +
			"SUPERGRAPH_OUTPUT_FORMAT=binary supergraph compose --config supergraph.yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Output.Format = format
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			s, err := g.open()
			if err != nil {
				return err
			}
			defer s.close()

			ctx := cmd.Context()
			subgraphs, err := cfg.LoadSubgraphs(ctx)
			if err != nil {
				return err
			}
			opts := append(cfg.Options(), composition.WithEventBus(s.bus))
			base, contracts := composition.FederateWithContracts(ctx, subgraphs, opts...)

			stderr := cmd.ErrOrStderr()
			if err := report(stderr, base); err != nil {
				return err
			}
			if err := writeOutputs(cfg, outDir, base); err != nil {
				return err
			}
			names := lo.Keys(contracts)
			sort.Strings(names)
			for _, name := range names {
				res := contracts[name]
				if err := report(stderr, res); err != nil {
					return err
				}
				if err := writeOutputs(cfg, filepath.Join(outDir, "contracts", name), res); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "composed %d subgraphs, %d contracts into %s\n", len(subgraphs), len(contracts), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "supergraph.yaml", "composition config file (YAML or JSON)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory the outputs are written to")
	cmd.Flags().StringVar(&format, "format", "", "router config encoding, json or binary (overrides the config file)")
	return cmd
}

// report prints warnings and errors of res and fails when it has errors.
func report(w io.Writer, res *composition.Result) error {
	label := "supergraph"
	if res.Contract != "" {
		label = "contract " + res.Contract
	}
	for _, v := range res.Warnings {
		fmt.Fprintf(w, "%s: warning: %s\n", label, v)
	}
	for _, v := range res.Errors {
		fmt.Fprintf(w, "%s: error: %s\n", label, v)
	}
	if !res.Success() {
		return errors.Errorf("%s: composition failed with %d errors", label, len(res.Errors))
	}
	return nil
}

func writeOutputs(cfg *config.Config, dir string, res *composition.Result) error {
	rc, err := composition.RouterConfig(res)
	if err != nil {
		return err
	}
	data, err := routerconfig.Encode(rc, cfg.Format())
	if err != nil {
		return err
	}
	files := []struct {
		name string
		data []byte
	}{
		{cfg.Output.RouterConfig, data},
		{cfg.Output.Schema, []byte(res.FederatedSDL)},
		{cfg.Output.ClientSchema, []byte(res.ClientSDL)},
	}
	for _, f := range files {
		if f.name == "" {
			continue
		}
		if err := config.WriteFile(config.OutputPath(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}
