// services/generator.go - LLM-backed content generation
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient with pharmacy-exam content methods.
type Generator struct {
	llm   LLMClient
	model string
}

var generator *Generator

// InitGenerator initializes the singleton generator.
func InitGenerator() {
	generator = NewGenerator()
}

// GetGenerator returns the initialized generator.
func GetGenerator() *Generator {
	return generator
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateQuestionBatch produces count new multiple-choice questions for
// a topic at the given difficulty.
func (g *Generator) GenerateQuestionBatch(ctx context.Context, topicTitle, difficulty string, count int) (*GeneratedBatch, *LLMResponse, error) {
	resp, err := g.llm.Generate(ctx, questionSystemPrompt, BuildQuestionPrompt(topicTitle, difficulty, count))
	if err != nil {
		return nil, nil, fmt.Errorf("generate question batch: %w", err)
	}

	batch, err := ParseQuestionBatch(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse question batch: %w", err)
	}

	return batch, resp, nil
}

// GenerateExplanation rewrites the explanation for an existing question.
func (g *Generator) GenerateExplanation(ctx context.Context, questionText string, options []string, correctIndex int) (string, error) {
	resp, err := g.llm.Generate(ctx, explanationSystemPrompt,
		BuildExplanationPrompt(questionText, options, correctIndex))
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}
	return ParseTextResult(resp.Content)
}

// GenerateStudyPlan produces a personalized study plan from the user's
// analytics snapshot.
func (g *Generator) GenerateStudyPlan(ctx context.Context, stats UserAnalytics, weakTopics []string) (string, error) {
	resp, err := g.llm.Generate(ctx, studyPlanSystemPrompt, BuildStudyPlanPrompt(stats, weakTopics))
	if err != nil {
		return "", fmt.Errorf("generate study plan: %w", err)
	}
	return ParseTextResult(resp.Content)
}

// AnalyzePerformance produces a narrative performance analysis for the
// admin back-office.
func (g *Generator) AnalyzePerformance(ctx context.Context, stats UserAnalytics) (string, error) {
	resp, err := g.llm.Generate(ctx, analysisSystemPrompt, BuildAnalysisPrompt(stats))
	if err != nil {
		return "", fmt.Errorf("analyze performance: %w", err)
	}
	return ParseTextResult(resp.Content)
}

// ── APIClient — Anthropic SDK ──────────────────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockJSON(),
		PromptTokens: 800,
		OutputTokens: 1600,
	}, nil
}

func buildMockJSON() string {
	drugs := []string{"amoxicillin", "metformin", "warfarin", "lisinopril", "atorvastatin"}

	questions := "["
	for i := 0; i < 5; i++ {
		drug := drugs[i%len(drugs)]
		if i > 0 {
			questions += ","
		}
		questions += fmt.Sprintf(`{"question_text":"[Mock] A patient presents a new prescription for %s. Which counselling point is most important to communicate at dispensing?","options":["[Mock] Take with food to reduce gastrointestinal upset","[Mock] Avoid all dairy products indefinitely","[Mock] Double the next dose after a missed dose","[Mock] Stop therapy once symptoms resolve"],"correct_answer":%d,"explanation":"[Mock] The keyed counselling point reflects standard guidance for %s; the distractors describe unsafe or unnecessary practices.","difficulty":"medium","tags":["counselling","%s"]}`,
			drug, 0, drug, drug)
	}
	questions += "]"

	return fmt.Sprintf(`{"questions":%s}`, questions)
}
