// Package retrieval decides search breadth from query shape and runs
// the strict-then-relaxed two-attempt search against the vector index.
package retrieval

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/iamswethaa/chatbot/internal/models"
	"github.com/iamswethaa/chatbot/internal/types"
)

// Plan is the breadth of one search attempt.
type Plan struct {
	TopK     int
	MinScore float32
}

// The two named plans plus the single relaxed retry. Broad trades
// precision for recall on queries whose phrasing suggests the answer is
// spread across passages.
var (
	BroadPlan   = Plan{TopK: 15, MinScore: 0.15}
	NarrowPlan  = Plan{TopK: 8, MinScore: 0.25}
	RelaxedPlan = Plan{TopK: 15, MinScore: 0.1}
)

var (
	listPattern = regexp.MustCompile(
		`(?i)\b(list|enumerate|name (all|the|every)|all (the|of the)?\s*\w+s\b|types of|kinds of|what are|which are|how many)`,
	)
	questionPattern = regexp.MustCompile(
		`(?i)(\?|^(what|who|when|where|why|how|which|is|are|can|could|do|does|did|should|would|will)\b|\b(explain|describe|show|tell me|give me)\b)`,
	)
)

// IsListQuery reports whether the message asks for an enumeration.
func IsListQuery(message string) bool {
	return listPattern.MatchString(message)
}

// PlanFor picks the search breadth for a message: broad when list or
// question cues match, narrow otherwise.
func PlanFor(message string) Plan {
	if listPattern.MatchString(message) || questionPattern.MatchString(message) {
		return BroadPlan
	}
	return NarrowPlan
}

type Planner struct {
	index types.VectorIndex
	log   *zap.Logger
}

func NewPlanner(index types.VectorIndex, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{index: index, log: log}
}

// Retrieve searches document records with the given plan. A strict
// attempt that comes back empty is retried exactly once with
// RelaxedPlan; an empty relaxed attempt is a normal outcome, not an
// error, and means the corpus has nothing relevant.
func (p *Planner) Retrieve(ctx context.Context, queryVector []float32, plan Plan) ([]models.SearchResult, error) {
	results, err := p.index.Search(ctx, queryVector, plan.TopK, plan.MinScore, models.RecordTypeDocument)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 || plan.MinScore <= RelaxedPlan.MinScore {
		return results, nil
	}

	p.log.Debug("strict search empty, relaxing",
		zap.Int("topK", RelaxedPlan.TopK),
		zap.Float32("minScore", RelaxedPlan.MinScore),
	)

	return p.index.Search(ctx, queryVector, RelaxedPlan.TopK, RelaxedPlan.MinScore, models.RecordTypeDocument)
}
