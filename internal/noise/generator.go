package noise

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Progress messages reported before and after octave sampling.
const (
	MessageSampling = "Generating octaves 0%"
	MessageBlending = "Blending %d octaves"
)

// GeneratorOptions configures optional Generator collaborators.
type GeneratorOptions struct {
	Reporter Reporter
	Logger   *slog.Logger
	Policy   Policy
}

// Generator produces noise fields from a random source.
// A Generator is not safe for concurrent use because its source is not.
type Generator struct {
	source   Source
	reporter Reporter
	logger   *slog.Logger
	policy   Policy
}

// NewGenerator creates a generator drawing from src. A nil src uses a fresh
// entropy-seeded source.
func NewGenerator(src Source, opts GeneratorOptions) *Generator {
	if src == nil {
		src = NewEntropySource()
	}
	return &Generator{
		source:   src,
		reporter: opts.Reporter,
		logger:   opts.Logger,
		policy:   opts.Policy,
	}
}

// Generate samples p.Depth octaves and blends them into a p.Width x p.Height
// field. Cancellation is observed only at octave boundaries.
func (g *Generator) Generate(ctx context.Context, p Params) (*Field, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(g.reporter, false, MessageSampling)
	set := Sample(p.Width, p.Height, p.Depth, p.Scale, g.source)
	g.log().Debug("Octaves sampled", "depth", len(set), "scale", p.Scale)

	report(g.reporter, false, fmt.Sprintf(MessageBlending, len(set)))
	f, err := blend(ctx, g.policy, set, p.Width, p.Height, g.reporter, g.log())
	if err != nil {
		return nil, fmt.Errorf("generation interrupted: %w", err)
	}

	g.log().Info("Field generated",
		"width", p.Width,
		"height", p.Height,
		"depth", p.Depth,
		"scale", p.Scale,
		"policy", g.policy.String(),
		"elapsed", time.Since(start),
	)
	return f, nil
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
