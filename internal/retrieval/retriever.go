package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhcet-ai/advisor-engine/internal/clients/gemini"
	"github.com/zhcet-ai/advisor-engine/internal/observability"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/types"
	"github.com/zhcet-ai/advisor-engine/internal/vector"
)

// NoInformationContext is returned as the context when the policy corpus
// has nothing to offer. Callers render it instead of failing.
const NoInformationContext = "No relevant ordinance information found."

// DefaultSourceLabel stands in for chunks indexed without a source.
const DefaultSourceLabel = "AMU Ordinances"

const defaultTopK = 3

// Retriever answers similarity queries over the ordinance corpus and
// formats the hits into prompt-ready context.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) (*types.RetrievalResult, error)

	// Canned ordinance lookups used by the advisory flows.
	PromotionRules(ctx context.Context) (*types.RetrievalResult, error)
	AdvancementRules(ctx context.Context) (*types.RetrievalResult, error)
	RegistrationModes(ctx context.Context) (*types.RetrievalResult, error)
	GradingRules(ctx context.Context) (*types.RetrievalResult, error)
}

type retriever struct {
	log     *logger.Logger
	metrics *observability.Metrics
	index   *vector.Index
	llm     gemini.Client
}

func NewRetriever(index *vector.Index, llm gemini.Client, metrics *observability.Metrics, baseLog *logger.Logger) (Retriever, error) {
	if index == nil {
		return nil, fmt.Errorf("vector index required")
	}
	if llm == nil {
		return nil, fmt.Errorf("gemini client required")
	}
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &retriever{
		log:     baseLog.With("service", "RetrieverService"),
		metrics: metrics,
		index:   index,
		llm:     llm,
	}, nil
}

func (r *retriever) Retrieve(ctx context.Context, query string, topK int) (*types.RetrievalResult, error) {
	r.metrics.IncRetrievalQuery()

	if r.index.Len() == 0 {
		r.log.Debug("Policy corpus empty; serving sentinel", "query", query)
		return &types.RetrievalResult{
			Context: NoInformationContext,
			Sources: []string{},
			Chunks:  []types.RetrievedChunk{},
		}, nil
	}

	if topK <= 0 {
		topK = defaultTopK
	}

	queryVec, err := r.llm.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve %q: %w", query, err)
	}

	matches, err := r.index.Search(queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve %q: %w", query, err)
	}

	var contextText strings.Builder
	sources := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	chunks := make([]types.RetrievedChunk, 0, len(matches))

	for i, m := range matches {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		fmt.Fprintf(&contextText, "[Source %d]\n%s", i+1, m.Chunk.Text)

		label := strings.TrimSpace(m.Chunk.Source)
		if label == "" {
			label = DefaultSourceLabel
		}
		if !seen[label] {
			seen[label] = true
			sources = append(sources, label)
		}
		chunks = append(chunks, types.RetrievedChunk{
			Text:     m.Chunk.Text,
			Source:   label,
			Metadata: m.Chunk.Metadata,
			Score:    m.Score,
		})
	}

	return &types.RetrievalResult{
		Context: contextText.String(),
		Sources: sources,
		Chunks:  chunks,
	}, nil
}

func (r *retriever) PromotionRules(ctx context.Context) (*types.RetrievalResult, error) {
	return r.Retrieve(ctx, "promotion requirements earned credits semester", 2)
}

func (r *retriever) AdvancementRules(ctx context.Context) (*types.RetrievalResult, error) {
	return r.Retrieve(ctx, "advancement eligibility CGPA third year final year", 2)
}

func (r *retriever) RegistrationModes(ctx context.Context) (*types.RetrievalResult, error) {
	return r.Retrieve(ctx, "registration modes backlog attendance sessional examination", 2)
}

func (r *retriever) GradingRules(ctx context.Context) (*types.RetrievalResult, error) {
	return r.Retrieve(ctx, "grading system grade points passing marks", 3)
}
