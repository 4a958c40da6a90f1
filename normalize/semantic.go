package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/coder/hnsw"
)

// Semantic extends the lexical policy with embedding-based matching: replies
// the lexical matcher cannot place are resolved to the nearest option label
// in embedding space. Explicit opt-in; still heuristic, just a different
// failure mode than the sentinel.
type Semantic struct {
	embedder *Embedder
	graph    *hnsw.Graph[string]
}

// NewSemantic embeds the option labels once and indexes them for
// nearest-neighbor lookup.
func NewSemantic(embedder *Embedder, options []string) (*Semantic, error) {
	vectors, err := embedder.EmbedBatch(options)
	if err != nil {
		return nil, fmt.Errorf("embed response options: %w", err)
	}

	graph := hnsw.NewGraph[string]()
	nodes := make([]hnsw.Node[string], len(options))
	for i, opt := range options {
		nodes[i] = hnsw.MakeNode(opt, vectors[i])
	}
	graph.Add(nodes...)

	return &Semantic{embedder: embedder, graph: graph}, nil
}

// Match implements Matcher. The lexical policy runs first; only replies it
// cannot place are embedded. Embedding failures degrade to the sentinel
// rather than failing the run.
func (s *Semantic) Match(raw string, options []string) string {
	if m := Match(raw, options); m != Unparsed {
		return m
	}
	if strings.TrimSpace(raw) == "" {
		return Unparsed
	}

	vec, err := s.embedder.Embed(raw)
	if err != nil {
		slog.Warn("semantic match failed, recording sentinel", "error", err)
		return Unparsed
	}

	neighbors := s.graph.Search(vec, 1)
	if len(neighbors) == 0 {
		return Unparsed
	}
	return neighbors[0].Key
}
