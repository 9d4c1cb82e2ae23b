package corpus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zhcet-ai/advisor-engine/internal/clients/gemini"
	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
	"github.com/zhcet-ai/advisor-engine/internal/types"
	"github.com/zhcet-ai/advisor-engine/internal/vector"
)

// embedBatchSize bounds one embedding request; batches run concurrently.
const embedBatchSize = 32

// Builder chunks policy passages, embeds them and assembles a fresh flat
// index. Rebuilds run offline with no concurrent readers.
type Builder struct {
	log          *logger.Logger
	llm          gemini.Client
	dim          int
	chunkSize    int
	chunkOverlap int
	concurrency  int
}

func NewBuilder(llm gemini.Client, dim, concurrency int, baseLog *logger.Logger) (*Builder, error) {
	if llm == nil {
		return nil, fmt.Errorf("gemini client required")
	}
	if baseLog == nil {
		return nil, fmt.Errorf("logger required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d", errs.ErrInvalidArgument, dim)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Builder{
		log:          baseLog.With("service", "CorpusBuilder"),
		llm:          llm,
		dim:          dim,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		concurrency:  concurrency,
	}, nil
}

// Build embeds every chunk of the source and returns a ready index.
func (b *Builder) Build(ctx context.Context, src *SourceFile) (*vector.Index, error) {
	if src == nil || len(src.Passages) == 0 {
		return nil, fmt.Errorf("%w: empty corpus source", errs.ErrInvalidArgument)
	}

	var chunks []types.PolicyChunk
	for _, p := range src.Passages {
		for i, piece := range Chunk(p.Text, b.chunkSize, b.chunkOverlap) {
			chunks = append(chunks, types.PolicyChunk{
				ID:           uuid.NewString(),
				Text:         piece,
				Source:       p.Source,
				DocumentType: p.DocumentType,
				Metadata:     map[string]string{"chunk_index": strconv.Itoa(i)},
			})
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: corpus source produced no chunks", errs.ErrInvalidArgument)
	}

	b.log.Info("Embedding policy corpus",
		"passages", len(src.Passages),
		"chunks", len(chunks),
		"dim", b.dim,
		"concurrency", b.concurrency,
	)

	vecs := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for start := 0; start < len(chunks); start += embedBatchSize {
		start := start
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			texts := make([]string, 0, end-start)
			for _, c := range chunks[start:end] {
				texts = append(texts, c.Text)
			}
			batch, err := b.llm.EmbedTexts(gctx, texts)
			if err != nil {
				return err
			}
			if len(batch) != len(texts) {
				return fmt.Errorf("%w: embedded %d of %d chunks", errs.ErrExternalService, len(batch), len(texts))
			}
			for i, vec := range batch {
				if len(vec) != b.dim {
					return fmt.Errorf("%w: provider returned dimension %d, expected %d", errs.ErrExternalService, len(vec), b.dim)
				}
				vecs[start+i] = vec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index, err := vector.New(b.dim)
	if err != nil {
		return nil, err
	}
	if err := index.Add(chunks, vecs); err != nil {
		return nil, err
	}

	b.log.Info("Policy corpus built", "chunks", index.Len())
	return index, nil
}
