// Package vector holds a flat, in-memory nearest-neighbor index over
// fixed-dimension embeddings. Search is exact brute force: every stored
// vector is scored against the query with squared Euclidean distance.
// The index is read-many/write-rarely; writes happen only during offline
// corpus builds.
package vector

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/types"
)

// Match pairs a stored chunk with its distance from the query. Score is the
// squared L2 distance: lower is closer, and ordering matches true L2.
type Match struct {
	Chunk types.PolicyChunk
	Score float64
}

type Index struct {
	mu     sync.RWMutex
	dim    int
	chunks []types.PolicyChunk
	vecs   [][]float32
}

func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: vector dimension must be positive, got %d", errs.ErrInvalidArgument, dim)
	}
	return &Index{dim: dim}, nil
}

func (ix *Index) Dim() int {
	return ix.dim
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Add appends chunks with their embeddings. Lengths and dimensions must
// line up exactly; a partial add never happens.
func (ix *Index) Add(chunks []types.PolicyChunk, vecs [][]float32) error {
	if len(chunks) != len(vecs) {
		return fmt.Errorf("%w: %d chunks with %d vectors", errs.ErrInvalidArgument, len(chunks), len(vecs))
	}
	for i, v := range vecs {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d", errs.ErrInvalidArgument, i, len(v), ix.dim)
		}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.chunks = append(ix.chunks, chunks...)
	ix.vecs = append(ix.vecs, vecs...)
	return nil
}

// Search returns the k nearest chunks ordered by ascending distance, ties
// broken by insertion order. k is clamped to the corpus size; k <= 0 or an
// empty index yields no matches.
func (ix *Index) Search(query []float32, k int) ([]Match, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d", errs.ErrInvalidArgument, len(query), ix.dim)
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if k <= 0 || len(ix.chunks) == 0 {
		return nil, nil
	}
	if k > len(ix.chunks) {
		k = len(ix.chunks)
	}

	matches := make([]Match, len(ix.chunks))
	for i, vec := range ix.vecs {
		matches[i] = Match{Chunk: ix.chunks[i], Score: squaredL2(query, vec)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches[:k], nil
}

func squaredL2(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// snapshot is the on-disk form of the index.
type snapshot struct {
	Dim     int
	Chunks  []types.PolicyChunk
	Vectors [][]float32
}

// Save writes the index atomically: encode to a temp file, then rename
// over the target so readers never observe a torn snapshot.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	snap := snapshot{Dim: ix.dim, Chunks: ix.chunks, Vectors: ix.vecs}
	ix.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index snapshot: %w", err)
	}
	if snap.Dim <= 0 {
		return nil, fmt.Errorf("%w: snapshot carries dimension %d", errs.ErrDataIntegrity, snap.Dim)
	}
	if len(snap.Chunks) != len(snap.Vectors) {
		return nil, fmt.Errorf("%w: snapshot has %d chunks and %d vectors", errs.ErrDataIntegrity, len(snap.Chunks), len(snap.Vectors))
	}
	return &Index{dim: snap.Dim, chunks: snap.Chunks, vecs: snap.Vectors}, nil
}
