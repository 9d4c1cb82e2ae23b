package types

// PolicyChunk is one embedded passage of ordinance text. Built offline by
// the indexer, queried read-only at runtime. The embedding itself lives in
// the vector index, keyed by position.
type PolicyChunk struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	Source       string            `json:"source"`
	DocumentType string            `json:"document_type"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// RetrievedChunk is a policy chunk scored against a query. Score is the
// raw squared-L2 distance between embeddings: lower means more relevant.
// It is a distance, never a similarity; consumers must not invert it.
type RetrievedChunk struct {
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// RetrievalResult is the formatted outcome of a similarity query.
type RetrievalResult struct {
	// Context is the prompt-ready concatenation of retrieved passages, or
	// a "no information" sentinel when the corpus is empty.
	Context string `json:"context"`
	// Sources are unique labels in order of first appearance.
	Sources []string         `json:"sources"`
	Chunks  []RetrievedChunk `json:"chunks"`
}
