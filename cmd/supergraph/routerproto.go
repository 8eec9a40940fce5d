package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hanpama/supergraph/composition"
	"github.com/hanpama/supergraph/internal/routerconfig"
)

func newRouterProtoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "router-proto",
		Short: "Print the .proto file describing the router configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			proto, err := routerconfig.RenderProto()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), proto)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build and compatibility versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "supergraph %s (compatibility version %s)\n", version, composition.LatestCompatibilityVersion)
		},
	}
}
