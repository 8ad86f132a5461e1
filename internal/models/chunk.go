package models

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	ID         string
	Content    string
	Source     string
	PageNumber int
	ChunkID    int
}

// AnswerSource tells which branch produced an Answer.
type AnswerSource int

const (
	// AnswerParsed means the text came from results[0].generated_text.
	AnswerParsed AnswerSource = iota
	// AnswerRawFallback means the payload did not have the expected shape and
	// Text holds the whole decoded payload re-encoded as JSON.
	AnswerRawFallback
)

func (s AnswerSource) String() string {
	switch s {
	case AnswerParsed:
		return "parsed"
	case AnswerRawFallback:
		return "raw_fallback"
	default:
		return "unknown"
	}
}

// Answer is the result of a chat completion call.
type Answer struct {
	Text   string
	Source AnswerSource
}

// IsFallback reports whether the answer is the raw payload fallback.
func (a Answer) IsFallback() bool {
	return a.Source == AnswerRawFallback
}

type SourceRef struct {
	Filename   string  `json:"filename"`
	PageNumber int     `json:"page_number"`
	Similarity float32 `json:"similarity"`
}

type PromptResponse struct {
	Query    string
	Sources  []SourceRef
	Content  string
	Fallback bool
}
