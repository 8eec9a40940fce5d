// Package federation merges normalized subgraphs into one federated graph,
// consolidates entity, authorization and routing data, and checks that the
// result is resolvable.
package federation

import (
	"context"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/hanpama/supergraph/internal/eventbus"
	"github.com/hanpama/supergraph/internal/events"
	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
	"github.com/hanpama/supergraph/internal/resolvability"
	"github.com/hanpama/supergraph/internal/runid"
	"github.com/hanpama/supergraph/internal/schema"
	"github.com/hanpama/supergraph/internal/typemerge"
)

// Subgraph is one composition input. Document takes precedence over SDL.
type Subgraph struct {
	Name     string
	URL      string
	SDL      string
	Document *language.SchemaDocument
}

// ContractSpec selects the part of the graph a contract exposes. Only one of
// the lists is expected to be set; exclusions are applied after inclusions.
type ContractSpec struct {
	TagInclusions []string
	TagExclusions []string
}

type options struct {
	version     ir.CompatibilityVersion
	maxOrScopes int
	maxDepth    int
	contracts   map[string]ContractSpec
	bus         *eventbus.Bus
}

type Option func(*options)

// WithVersion selects the compatibility version used for every subgraph.
func WithVersion(v ir.CompatibilityVersion) Option {
	return func(o *options) { o.version = v }
}

// WithMaxOrScopes bounds the OR-list length of merged scope requirements.
func WithMaxOrScopes(n int) Option {
	return func(o *options) { o.maxOrScopes = n }
}

// WithMaxTypeNestingDepth bounds the list and non-null wrappers of merged types.
func WithMaxTypeNestingDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithContract registers a contract composed by FederateWithContracts.
func WithContract(name string, spec ContractSpec) Option {
	return func(o *options) {
		if o.contracts == nil {
			o.contracts = make(map[string]ContractSpec)
		}
		o.contracts[name] = spec
	}
}

// WithEventBus publishes composition lifecycle events on bus.
func WithEventBus(bus *eventbus.Bus) Option {
	return func(o *options) { o.bus = bus }
}

func newOptions(opts []Option) options {
	o := options{
		version:     ir.LatestCompatibilityVersion,
		maxOrScopes: ir.DefaultMaxOrScopes,
		maxDepth:    typemerge.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Result is the outcome of one composition. On failure only Errors,
// Warnings and the successfully normalized Subgraphs are set.
type Result struct {
	// Contract is empty for the base graph.
	Contract string

	Registry *ir.Registry
	// Subgraphs holds the normalized subgraphs in input order, with their
	// configuration data projected from the merged graph.
	Subgraphs           []*ir.Subgraph
	AuthorizationData   map[string]*ir.AuthorizationData
	FieldConfigurations []*ir.FieldConfiguration

	FederatedSDL string
	ClientSDL    string

	Errors   []*ir.Violation
	Warnings []*ir.Violation
}

func (r *Result) Success() bool { return len(r.Errors) == 0 }

// Err folds Errors into one error, or returns nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, v := range r.Errors {
		merr = multierror.Append(merr, v)
	}
	return merr.ErrorOrNil()
}

// Subgraph returns the normalized subgraph named name, or nil.
func (r *Result) Subgraph(name string) *ir.Subgraph {
	for _, sg := range r.Subgraphs {
		if sg.Name == name {
			return sg
		}
	}
	return nil
}

// Federate composes the base graph of subgraphs.
func Federate(ctx context.Context, subgraphs []Subgraph, opts ...Option) *Result {
	o := newOptions(opts)
	ctx, _ = runid.Ensure(ctx)
	return compose(ctx, subgraphs, o, "", nil)
}

// FederateWithContracts composes the base graph and, when it succeeds, one
// graph per contract registered with WithContract.
func FederateWithContracts(ctx context.Context, subgraphs []Subgraph, opts ...Option) (*Result, map[string]*Result) {
	o := newOptions(opts)
	ctx, _ = runid.Ensure(ctx)
	base := compose(ctx, subgraphs, o, "", nil)
	if !base.Success() {
		return base, nil
	}
	names := make([]string, 0, len(o.contracts))
	for name := range o.contracts {
		names = append(names, name)
	}
	sort.Strings(names)
	contracts := make(map[string]*Result, len(names))
	for _, name := range names {
		spec := o.contracts[name]
		contracts[name] = compose(ctx, subgraphs, o, name, &spec)
	}
	return base, contracts
}

func compose(ctx context.Context, inputs []Subgraph, o options, contract string, spec *ContractSpec) *Result {
	start := time.Now()
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	eventbus.Publish(ctx, o.bus, events.CompositionStart{Subgraphs: names, Contract: contract})

	res := &Result{Contract: contract}
	defer func() {
		ir.SortViolations(res.Errors)
		ir.SortViolations(res.Warnings)
		eventbus.Publish(ctx, o.bus, events.CompositionFinish{
			Subgraphs: names,
			Contract:  contract,
			Errors:    toErrors(res.Errors),
			Warnings:  len(res.Warnings),
			Duration:  time.Since(start),
		})
	}()

	if errs := checkSubgraphNames(inputs); len(errs) > 0 {
		res.Errors = errs
		return res
	}

	normalized, errs, warnings := normalizeAll(ctx, inputs, o, contract)
	res.Subgraphs = normalized
	res.Warnings = append(res.Warnings, warnings...)
	if len(errs) > 0 {
		res.Errors = errs
		return res
	}

	if spec != nil {
		applyContract(normalized, *spec)
	}

	fedStart := time.Now()
	eventbus.Publish(ctx, o.bus, events.FederationStart{Contract: contract, Subgraphs: len(normalized)})
	m := newMerger(normalized, o)
	m.merge()
	res.Errors = append(res.Errors, m.errors...)
	res.Warnings = append(res.Warnings, m.warnings...)
	eventbus.Publish(ctx, o.bus, events.FederationFinish{
		Contract: contract,
		Errors:   toErrors(m.errors),
		Warnings: len(m.warnings),
		Duration: time.Since(fedStart),
	})
	if len(res.Errors) > 0 {
		return res
	}

	resStart := time.Now()
	eventbus.Publish(ctx, o.bus, events.ResolvabilityStart{Contract: contract})
	check := resolvability.Check(m.reg)
	res.Errors = append(res.Errors, check.Errors...)
	res.Warnings = append(res.Warnings, check.Warnings...)
	eventbus.Publish(ctx, o.bus, events.ResolvabilityFinish{
		Contract: contract,
		Errors:   toErrors(check.Errors),
		Warnings: len(check.Warnings),
		Duration: time.Since(resStart),
	})
	if len(res.Errors) > 0 {
		return res
	}

	m.projectConfiguration()
	res.Registry = m.reg
	res.AuthorizationData = m.auth
	res.FieldConfigurations = m.fieldConfigurations()
	res.FederatedSDL = schema.RouterSDL(m.reg)
	res.ClientSDL = schema.ClientSDL(m.reg)
	return res
}

func checkSubgraphNames(inputs []Subgraph) []*ir.Violation {
	var errs []*ir.Violation
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		switch {
		case in.Name == "":
			errs = append(errs, ir.ViolationSubgraphNameEmpty(i))
		case seen[in.Name]:
			errs = append(errs, ir.ViolationSubgraphNameDuplicate(in.Name))
		}
		seen[in.Name] = true
	}
	return errs
}

func toErrors(vs []*ir.Violation) []error {
	if len(vs) == 0 {
		return nil
	}
	out := make([]error, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
