package noise

import (
	"context"
	"fmt"
	"log/slog"
)

// Policy selects how octaves are combined.
type Policy int

const (
	// PolicyChained folds octaves through two chained interpolations,
	// starting from a neutral 0.5 field.
	PolicyChained Policy = iota
	// PolicyAverage sums each octave's nearest sample divided by depth,
	// starting from zero. It produces hard cell edges.
	PolicyAverage
)

func (p Policy) String() string {
	switch p {
	case PolicyChained:
		return "chained"
	case PolicyAverage:
		return "average"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy resolves a policy name. The empty string selects the chained
// policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "chained":
		return PolicyChained, nil
	case "average":
		return PolicyAverage, nil
	default:
		return 0, fmt.Errorf("unknown blend policy %q: must be 'chained' or 'average'", name)
	}
}

// MessageGenerated is reported, with done set, once a field is complete.
const MessageGenerated = "Generated"

// Blend folds every octave of set into a width x height field using the
// chained policy, then reports completion to r (which may be nil).
func Blend(set OctaveSet, width, height int, r Reporter) *Field {
	f, _ := blend(context.Background(), PolicyChained, set, width, height, r, nil)
	return f
}

// BlendAverage combines set with the averaging policy.
func BlendAverage(set OctaveSet, width, height int, r Reporter) *Field {
	f, _ := blend(context.Background(), PolicyAverage, set, width, height, r, nil)
	return f
}

// blend processes octaves in index order. ctx is only consulted between
// octaves; a cancelled context leaves the partially folded field behind and
// returns ctx.Err() without reporting completion.
func blend(ctx context.Context, policy Policy, set OctaveSet, width, height int, r Reporter, logger *slog.Logger) (*Field, error) {
	depth := len(set)

	var f *Field
	switch policy {
	case PolicyAverage:
		f = newField(width, height)
	default:
		f = NewField(width, height)
	}

	for _, o := range set {
		if err := ctx.Err(); err != nil {
			return f, err
		}

		switch policy {
		case PolicyAverage:
			f.accumulate(o, depth)
		default:
			f.Fold(o, depth)
		}

		if logger != nil {
			logger.Debug("Octave folded",
				"octave", o.Index,
				"cell_size", o.CellSize,
				"grid", fmt.Sprintf("%dx%d", o.Width, o.Height),
				"policy", policy.String(),
			)
		}
	}

	report(r, true, MessageGenerated)
	return f, nil
}
