package llm

import (
	"fmt"
	"strings"
)

// PromptDocumentLimit caps how many context documents go into a prompt.
const PromptDocumentLimit = 2

const systemPrompt = `당신은 회사 규정 전문가입니다. 제공된 문서를 바탕으로 질문에 정확하고 도움이 되는 답변을 한국어로 제공해주세요.

답변 지침:
- 제공된 문서의 내용을 바탕으로 답변하세요
- 구체적이고 실용적인 정보를 포함하세요
- 한국어로 자연스럽게 답변하세요
- 문서에 없는 내용은 추측하지 마세요`

// ContextDocument is one retrieved passage offered to the model.
type ContextDocument struct {
	Source string
	Text   string
}

// BuildRAGMessages builds the chat messages for question. Without usable
// context the question is sent on its own.
func BuildRAGMessages(question string, docs []ContextDocument) []Message {
	question = strings.TrimSpace(question)

	parts := make([]string, 0, PromptDocumentLimit)
	for _, doc := range docs {
		if len(parts) == PromptDocumentLimit {
			break
		}
		text := strings.TrimSpace(doc.Text)
		if text == "" {
			continue
		}
		source := doc.Source
		if source == "" {
			source = "알 수 없는 출처"
		}
		parts = append(parts, fmt.Sprintf("[문서 %d] (%s)\n%s", len(parts)+1, source, text))
	}

	if len(parts) == 0 {
		return []Message{
			{Role: RoleUser, Content: fmt.Sprintf("질문: %s\n\n한국어로 답변해주세요:", question)},
		}
	}

	user := fmt.Sprintf("참고 문서:\n%s\n\n질문: %s\n\n답변:", strings.Join(parts, "\n\n"), question)
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: user},
	}
}
