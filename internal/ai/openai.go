package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/analysis"
	"github.com/shanilnc/night-mind/internal/apperr"
	"github.com/shanilnc/night-mind/internal/models"
	"github.com/shanilnc/night-mind/internal/tagger"
)

const systemPrompt = `You are NightMind, an empathetic AI companion designed to help people process anxiety and late-night thoughts. You are:

- Warm, understanding, and non-judgmental
- Skilled at asking clarifying questions to help users explore their thoughts
- Focused on providing emotional support and practical coping strategies
- Able to recognize anxiety patterns and gently guide users toward healthier perspectives
- Conversational and friendly, avoiding clinical or robotic language

Remember to:
- Validate the user's feelings
- Ask open-ended questions to encourage reflection
- Suggest practical coping techniques when appropriate
- Be supportive but not prescriptive
- Encourage professional help for serious mental health concerns`

// OpenAIClient implements Completer and Analyzer over the OpenAI chat
// completion API.
type OpenAIClient struct {
	client          *openai.Client
	model           string
	maxTokens       int
	temperature     float64
	completeTimeout time.Duration
	analyzeTimeout  time.Duration
	logger          *zap.Logger
}

func NewOpenAIClient(apiKey, model string, maxTokens int, temperature float64,
	completeTimeout, analyzeTimeout time.Duration, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:          openai.NewClient(apiKey),
		model:           model,
		maxTokens:       maxTokens,
		temperature:     temperature,
		completeTimeout: completeTimeout,
		analyzeTimeout:  analyzeTimeout,
		logger:          logger,
	}
}

// Complete sends the full history plus a style-tuned system prompt and
// returns the assistant reply tagged by the keyword tagger.
func (c *OpenAIClient) Complete(ctx context.Context, history []models.Message, style models.CommunicationStyle) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.completeTimeout)
	defer cancel()

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: styledPrompt(style),
	})
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.Sender == models.SenderUser {
			role = openai.ChatMessageRoleUser
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		c.logger.Error("Completion request failed", zap.Error(err))
		return nil, apperr.Collaborator("completion service", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.Collaborator("completion service", fmt.Errorf("empty response"))
	}

	content := resp.Choices[0].Message.Content
	return &Completion{
		Content: content,
		Tags:    tagger.Extract(content),
	}, nil
}

// Analyze asks for a free-text analysis of the transcript; mood and tags
// are derived locally so the report stays deterministic even when the
// model's prose varies.
func (c *OpenAIClient) Analyze(ctx context.Context, messages []models.Message) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, c.analyzeTimeout)
	defer cancel()

	var transcript strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Sender, m.Content)
	}

	prompt := fmt.Sprintf(`Analyze this anxiety conversation and provide:
1. Main themes and patterns
2. Potential triggers identified
3. Progress or improvements noted
4. Suggested coping strategies

Conversation:
%s`, transcript.String())

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an AI therapist analyzing conversations for patterns and insights.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   300,
		Temperature: 0.3,
	})
	if err != nil {
		c.logger.Error("Analysis request failed", zap.Error(err))
		return nil, apperr.Collaborator("analysis service", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.Collaborator("analysis service", fmt.Errorf("empty response"))
	}

	contents := make([]string, len(messages))
	for i, m := range messages {
		contents[i] = m.Content
	}

	return &Analysis{
		Summary: strings.TrimSpace(resp.Choices[0].Message.Content),
		Mood:    analysis.DetectOverallMood(messages),
		Tags:    tagger.ExtractAll(contents),
	}, nil
}

func styledPrompt(style models.CommunicationStyle) string {
	switch style {
	case models.StyleDirect:
		return systemPrompt + "\n\nCommunication style: Be direct and solution-focused."
	case models.StyleAnalytical:
		return systemPrompt + "\n\nCommunication style: Use logical analysis and structured thinking."
	default:
		return systemPrompt + "\n\nCommunication style: Be especially warm and emotionally supportive."
	}
}
