package numbering

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/smallbiznis/officecrm/internal/clock"
	"github.com/smallbiznis/officecrm/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const fallbackSpace = 10000

// Generator produces document numbers. It asks the authority first and
// synthesizes a local number when the authority fails or is absent.
type Generator struct {
	authority Authority
	clock     clock.Clock
	log       *zap.Logger
	metrics   *metrics.Metrics

	base    int64
	counter atomic.Int64
}

type Params struct {
	fx.In

	Authority Authority `optional:"true"`
	Clock     clock.Clock
	Log       *zap.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

func NewGenerator(p Params) *Generator {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		authority: p.Authority,
		clock:     p.Clock,
		log:       log.Named("numbering.generator"),
		metrics:   p.Metrics,
		base:      rand.Int64N(fallbackSpace),
	}
}

// Generate returns a number for kind. It never fails for a valid kind.
func (g *Generator) Generate(ctx context.Context, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}

	if g.authority != nil {
		number, err := g.authority.Next(ctx, kind)
		if err == nil && number != "" {
			return number, nil
		}
		g.log.Warn("numbering authority failed, using fallback",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	g.metrics.RecordNumberingFallback(ctx, string(kind))
	return g.fallback(kind)
}

func (g *Generator) fallback(kind Kind) (string, error) {
	n := g.counter.Add(1) - 1
	seq := (g.base + n) % fallbackSpace
	return FormatNumber(DefaultTemplate, kind.Prefix(), g.clock.Now(), seq)
}
