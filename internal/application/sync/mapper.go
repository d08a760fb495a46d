package sync

import (
	"context"
	"fmt"

	"github.com/erp/connector/internal/domain/connector"
)

// ExistingIDKey is the reserved values key an only-on-create rule sets to
// bind the imported record to an existing host record instead of creating
// a new one. The importer strips it before the values reach a store.
const ExistingIDKey = "__existing_id__"

// MapContext is the input of one mapping run.
type MapContext struct {
	Work       *Work
	ExternalID connector.ExternalID
	// ParentID is set when the record lives under a nested endpoint
	// (variants of a template, terms of an attribute)
	ParentID connector.ExternalID
	Record   connector.RawRecord
	// ForCreate is true when the record has no binding yet; only-on-create
	// rules run only then.
	ForCreate bool
	// Force is set when the caller asked for a re-import of an already
	// bound record.
	Force bool
}

// RuleKind is the closed set of mapping rule kinds.
type RuleKind int

const (
	// RuleDirect copies one source field to one target key verbatim
	RuleDirect RuleKind = iota
	// RuleCompute derives target keys from the whole record
	RuleCompute
	// RuleOnlyOnCreate behaves like a compute rule but is skipped on updates
	RuleOnlyOnCreate
)

// ComputeFunc derives values from a remote record. Returning a nil map
// contributes nothing.
type ComputeFunc func(ctx context.Context, mc *MapContext) (connector.Values, error)

// Rule is one mapping rule. Direct rules carry From/To; compute rules
// carry Fn.
type Rule struct {
	Kind RuleKind
	From string
	To   string
	Fn   ComputeFunc
}

// Direct builds a rule copying Record[from] into vals[to].
func Direct(from, to string) Rule {
	return Rule{Kind: RuleDirect, From: from, To: to}
}

// Compute builds a rule deriving values from the whole record.
func Compute(fn ComputeFunc) Rule {
	return Rule{Kind: RuleCompute, Fn: fn}
}

// OnlyOnCreate builds a compute rule that runs only when the record is
// being imported for the first time.
func OnlyOnCreate(fn ComputeFunc) Rule {
	return Rule{Kind: RuleOnlyOnCreate, Fn: fn}
}

// Mapper turns a remote record into host values. Rules run in order and
// later rules overwrite earlier keys; Finalize runs last over the merged
// result.
type Mapper struct {
	Rules    []Rule
	Finalize func(ctx context.Context, mc *MapContext, vals connector.Values) (connector.Values, error)
}

// Map executes the rules against mc.Record.
func (m *Mapper) Map(ctx context.Context, mc *MapContext) (connector.Values, error) {
	out := connector.Values{}
	for _, r := range m.Rules {
		switch r.Kind {
		case RuleDirect:
			if v, ok := mc.Record[r.From]; ok {
				out[r.To] = v
			}
		case RuleCompute, RuleOnlyOnCreate:
			if r.Kind == RuleOnlyOnCreate && !mc.ForCreate {
				continue
			}
			vals, err := r.Fn(ctx, mc)
			if err != nil {
				return nil, err
			}
			out.Merge(vals)
		}
	}
	if m.Finalize != nil {
		return m.Finalize(ctx, mc, out)
	}
	return out, nil
}

// mappingErrorf wraps a formatted message in the mapping sentinel.
func mappingErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", connector.ErrMapping, fmt.Sprintf(format, args...))
}
