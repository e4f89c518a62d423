package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/citizenvoice/assistant/internal/model/chat"
)

const systemPrompt = "You are a helpful assistant for a Citizen Grievance Redressal System. " +
	"Your purpose is to help citizens with their grievances related to government services, " +
	"especially pension-related issues. Provide clear, concise, and accurate information. " +
	"If you don't know something, admit it and suggest where they might find the information. " +
	"Be empathetic and professional. IMPORTANT: Respond in %s language to match the user's language preference."

// LLMResponder answers queries with a chat model behind an eino chain.
type LLMResponder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMResponder compiles the prompt/model chain once at startup.
func NewLLMResponder(ctx context.Context, chatModel model.ChatModel) (*LLMResponder, error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}
	return &LLMResponder{chain: runnable}, nil
}

// Respond implements Responder. The language hint, when present, is folded
// into the system prompt; otherwise the query language is detected and
// reported back to the caller.
func (r *LLMResponder) Respond(ctx context.Context, query, lang string) (Reply, error) {
	if lang == "" {
		lang = DetectLanguage(query)
	}
	name, ok := chat.SupportedLanguages()[lang]
	if !ok {
		lang, name = chat.DefaultLanguage, "English"
	}

	response, err := r.chain.Invoke(ctx, map[string]any{
		"system": fmt.Sprintf(systemPrompt, name),
		"query":  query,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to run chat chain: %w", err)
	}

	log.Printf("[engine] generated response lang=%s length=%d", lang, len(response.Content))
	return Reply{Text: response.Content, Language: lang}, nil
}
