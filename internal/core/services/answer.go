package services

import (
	"context"
	"fmt"

	"github.com/finsight-labs/finrag/internal/core/domain"
	"github.com/finsight-labs/finrag/internal/core/ports/driven"
	"github.com/finsight-labs/finrag/internal/core/ports/driving"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// AnswerService is a thin orchestrator over retrieval and generation:
// it retrieves grounding chunks and delegates the answer to the LLM.
type AnswerService struct {
	retriever driving.Retriever
	llm       driven.LLMService
}

// NewAnswerService creates a new answer service. llm may be nil, in
// which case Ask fails with domain.ErrLLMUnavailable.
func NewAnswerService(retriever driving.Retriever, llm driven.LLMService) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
	}
}

// Ask retrieves the top-k chunks for the question and generates an
// answer conditioned on them.
func (s *AnswerService) Ask(ctx context.Context, question string, filter domain.Filter, k int) (*driving.Answer, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("%w: no language model configured", domain.ErrLLMUnavailable)
	}

	sources, err := s.retriever.Query(ctx, question, filter, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	text, err := s.llm.Generate(ctx, question, sources)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &driving.Answer{
		Text:    text,
		Sources: sources,
	}, nil
}
