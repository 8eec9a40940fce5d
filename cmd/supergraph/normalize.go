package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hanpama/supergraph/composition"
)

func newNormalizeCmd(g *globalFlags) *cobra.Command {
	var (
		name       string
		url        string
		schemaPath string
		compat     string
	)
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize one subgraph and print its configuration data as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sdl, err := os.ReadFile(schemaPath)
			if err != nil {
				return errors.Wrapf(err, "read schema %s", schemaPath)
			}
			s, err := g.open()
			if err != nil {
				return err
			}
			defer s.close()

			res := composition.Normalize(cmd.Context(),
				composition.Subgraph{Name: name, URL: url, SDL: string(sdl)},
				composition.WithVersion(composition.CompatibilityVersion(compat)),
				composition.WithEventBus(s.bus),
			)
			stderr := cmd.ErrOrStderr()
			for _, v := range res.Warnings {
				fmt.Fprintf(stderr, "%s: warning: %s\n", name, v)
			}
			for _, v := range res.Errors {
				fmt.Fprintf(stderr, "%s: error: %s\n", name, v)
			}
			if !res.Success() {
				return errors.Errorf("%s: normalization failed with %d errors", name, len(res.Errors))
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Subgraph)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "subgraph name")
	cmd.Flags().StringVar(&url, "url", "", "subgraph routing URL")
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "subgraph SDL file")
	cmd.Flags().StringVar(&compat, "version", string(composition.LatestCompatibilityVersion), "compatibility version")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
