package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"LiteratureScanner/internal/config"
	"LiteratureScanner/internal/domain"
	"LiteratureScanner/internal/ports"
)

const defaultSystemPrompt = "You are a clinical research assistant. Read the abstract and extract: " +
	"the research design, the study population, the interventions or exposures, " +
	"the primary and secondary endpoints, and the main results with effect sizes when reported. " +
	"Answer concisely. If the abstract does not state something, say \"Not reported\"."

var summarySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"researchDesign":  map[string]any{"type": "string", "description": "Study design, e.g. randomized controlled trial"},
		"studyPopulation": map[string]any{"type": "string", "description": "Who was studied and how many"},
		"interventions":   map[string]any{"type": "string", "description": "Interventions, exposures or comparators"},
		"endpoints":       map[string]any{"type": "string", "description": "Primary and secondary endpoints"},
		"results":         map[string]any{"type": "string", "description": "Main findings"},
	},
	"required":             []string{"researchDesign", "studyPopulation", "interventions", "endpoints", "results"},
	"additionalProperties": false,
}

// OpenAISummarizer implements ports.Summarizer with chat completions and a
// strict JSON schema response format.
type OpenAISummarizer struct {
	client       openai.Client
	model        string
	systemPrompt string
}

var _ ports.Summarizer = (*OpenAISummarizer)(nil)

// NewOpenAISummarizer builds a summarizer from configuration.
func NewOpenAISummarizer(cfg config.SummarizerConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAISummarizer{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		systemPrompt: safePrompt(cfg.SystemPrompt),
	}, nil
}

// Summarize asks the model for the five-field synopsis of abstract.
func (s *OpenAISummarizer) Summarize(ctx context.Context, abstract string) (domain.AISummary, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(s.systemPrompt),
			openai.UserMessage(abstract),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "clinical_synopsis",
					Description: openai.String("Structured synopsis of a clinical abstract"),
					Schema:      summarySchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return domain.AISummary{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.AISummary{}, errors.New("openai: empty choices")
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return domain.AISummary{}, fmt.Errorf("openai refused: %s", msg.Refusal)
	}

	var summary domain.AISummary
	if err := json.Unmarshal([]byte(msg.Content), &summary); err != nil {
		return domain.AISummary{}, fmt.Errorf("decode synopsis: %w", err)
	}
	if err := summary.Validate(); err != nil {
		return domain.AISummary{}, err
	}
	return summary, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
