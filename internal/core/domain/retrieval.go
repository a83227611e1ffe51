package domain

import "math"

// RetrievalResult is a record matched by a similarity search.
type RetrievalResult struct {
	Record

	// Distance is the dissimilarity to the query; lower is more similar.
	Distance float64 `json:"distance"`
}

// IndexStats summarises the contents of a record index.
type IndexStats struct {
	TotalDocuments int `json:"total_documents"`
}

// Answer is the response to a query.
type Answer struct {
	// Answer is the generated text.
	Answer string `json:"answer" yaml:"answer"`

	// Sources lists "source: path" for each retrieved record, in retrieval order.
	Sources []string `json:"sources" yaml:"sources"`

	// Confidence is in [0,1], rounded to two decimals.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// IngestStatus is the outcome of an ingestion request.
type IngestStatus string

// Ingestion outcomes.
const (
	IngestSuccess IngestStatus = "success"
	IngestError   IngestStatus = "error"
)

// IngestResult reports what an ingestion request did.
type IngestResult struct {
	Status             IngestStatus `json:"status" yaml:"status"`
	DocumentsProcessed int          `json:"documents_processed,omitempty" yaml:"documents_processed,omitempty"`
	TotalDocuments     int          `json:"total_documents,omitempty" yaml:"total_documents,omitempty"`
	Message            string       `json:"message,omitempty" yaml:"message,omitempty"`
}

// HealthReport reports collaborator reachability.
type HealthReport struct {
	VectorStore bool `json:"vector_store" yaml:"vector_store"`
	LLM         bool `json:"llm" yaml:"llm"`
	Overall     bool `json:"overall" yaml:"overall"`
}

// CosineDistance returns 1 - cos(a, b), clamped to [0, 2].
// Mismatched lengths and zero vectors give 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	return min(max(d, 0), 2)
}
