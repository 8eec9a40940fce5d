package federation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hanpama/supergraph/internal/eventbus"
	"github.com/hanpama/supergraph/internal/events"
	"github.com/hanpama/supergraph/internal/ir"
	"github.com/hanpama/supergraph/internal/normalization"
	"github.com/hanpama/supergraph/internal/runid"
)

// normalizeAll normalizes every input concurrently. Results keep input order;
// subgraphs that fail are left out of the returned slice.
func normalizeAll(ctx context.Context, inputs []Subgraph, o options, contract string) ([]*ir.Subgraph, []*ir.Violation, []*ir.Violation) {
	results := make([]*normalization.Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = normalizeOne(ctx, in, o, contract)
			return nil
		})
	}
	// Normalization reports failures as violations, never as errors.
	_ = g.Wait()

	var (
		subgraphs        []*ir.Subgraph
		errors, warnings []*ir.Violation
	)
	for _, res := range results {
		errors = append(errors, res.Errors...)
		warnings = append(warnings, res.Warnings...)
		if res.Subgraph != nil {
			subgraphs = append(subgraphs, res.Subgraph)
		}
	}
	return subgraphs, errors, warnings
}

// Normalize normalizes one subgraph with the version and limits selected by
// opts.
func Normalize(ctx context.Context, in Subgraph, opts ...Option) *normalization.Result {
	o := newOptions(opts)
	ctx, _ = runid.Ensure(ctx)
	return normalizeOne(ctx, in, o, "")
}

func normalizeOne(ctx context.Context, in Subgraph, o options, contract string) *normalization.Result {
	start := time.Now()
	eventbus.Publish(ctx, o.bus, events.NormalizationStart{Contract: contract, Subgraph: in.Name})
	nopts := []normalization.Option{
		normalization.WithVersion(o.version),
		normalization.WithURL(in.URL),
		normalization.WithMaxOrScopes(o.maxOrScopes),
	}
	var res *normalization.Result
	if in.Document != nil {
		res = normalization.Normalize(in.Name, in.Document, nopts...)
	} else {
		res = normalization.NormalizeSDL(in.Name, in.SDL, nopts...)
	}
	eventbus.Publish(ctx, o.bus, events.NormalizationFinish{
		Contract: contract,
		Subgraph: in.Name,
		Errors:   toErrors(res.Errors),
		Warnings: len(res.Warnings),
		Duration: time.Since(start),
	})
	return res
}
