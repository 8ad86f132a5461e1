package rag

import (
	"fmt"
	"strings"

	"scheme-rag/internal/models"
)

// BuildPrompt joins the chunks with blank lines and places them above the
// question.
func BuildPrompt(chunks []string, question string) string {
	contextText := strings.Join(chunks, models.ContextSeparator)
	return fmt.Sprintf(models.PromptTemplate, contextText, question)
}
