package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/config"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var (
	ErrMissingAPIKey = errors.New("an API key is required to ask questions")
	ErrEmptyAnswer   = errors.New("the model returned an empty answer")
	ErrNoAnswer      = errors.New("agent stopped without an answer")
)

// Database is the read-only surface the agent tools work against.
type Database interface {
	Dialect() string
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]models.Column, error)
	ExecuteQuery(ctx context.Context, query string, limit int) (*models.SQLResult, error)
}

// ModelFactory builds a tool calling chat model bound to one API key.
type ModelFactory func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error)

// OpenAIModelFactory talks to any OpenAI compatible endpoint (Groq by default).
func OpenAIModelFactory(cfg config.LLMConfig) ModelFactory {
	return func(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error) {
		temperature := float32(0)
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      apiKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Timeout:     cfg.Timeout,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, err
		}
		return cm, nil
	}
}

type Options struct {
	MaxSteps           int
	RowLimit           int
	MinRequestInterval time.Duration
	MaxRetries         int
	BaseDelay          time.Duration
}

// Agent answers questions by letting the model call SQL tools in a loop.
type Agent struct {
	newModel           ModelFactory
	maxSteps           int
	rowLimit           int
	maxRetries         int
	baseDelay          time.Duration
	lastRequestTime    time.Time
	requestMutex       sync.Mutex
	minRequestInterval time.Duration
}

func New(factory ModelFactory, opts Options) *Agent {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 8
	}
	if opts.RowLimit <= 0 {
		opts.RowLimit = 200
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	return &Agent{
		newModel:           factory,
		maxSteps:           opts.MaxSteps,
		rowLimit:           opts.RowLimit,
		maxRetries:         opts.MaxRetries,
		baseDelay:          opts.BaseDelay,
		minRequestInterval: opts.MinRequestInterval,
	}
}

// Ask runs the tool loop for one question and returns the model's final answer.
func (a *Agent) Ask(ctx context.Context, apiKey string, db Database, question string, obs ...Observer) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", ErrMissingAPIKey
	}
	if db == nil {
		return "", errors.New("no database connection")
	}
	notify := observers(obs)

	cm, err := a.newModel(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to create chat model: %w", err)
	}
	cm, err = cm.WithTools(toolInfos())
	if err != nil {
		return "", fmt.Errorf("failed to bind tools: %w", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(BuildSystemPrompt(db.Dialect(), a.rowLimit)),
		schema.UserMessage(question),
	}

	for step := 0; step < a.maxSteps; step++ {
		resp, err := a.generate(ctx, cm, messages)
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			answer := strings.TrimSpace(resp.Content)
			if answer == "" {
				return "", ErrEmptyAnswer
			}
			notify.OnAnswer(ctx, answer)
			return answer, nil
		}

		if thought := strings.TrimSpace(resp.Content); thought != "" {
			notify.OnThought(ctx, thought)
		}
		messages = append(messages, resp)

		for _, call := range resp.ToolCalls {
			notify.OnToolStart(ctx, call.Function.Name, call.Function.Arguments)
			output, err := a.runTool(ctx, db, call.Function.Name, call.Function.Arguments)
			notify.OnToolEnd(ctx, call.Function.Name, output, err)
			if err != nil {
				// The model gets the error so it can correct itself.
				output = "Error: " + err.Error()
			}
			messages = append(messages, schema.ToolMessage(output, call.ID))
		}
	}

	return "", fmt.Errorf("%w after %d steps", ErrNoAnswer, a.maxSteps)
}

// rateLimit keeps a minimum gap between model requests.
func (a *Agent) rateLimit() {
	a.requestMutex.Lock()
	defer a.requestMutex.Unlock()

	if wait := a.minRequestInterval - time.Since(a.lastRequestTime); wait > 0 {
		time.Sleep(wait)
	}
	a.lastRequestTime = time.Now()
}

func (a *Agent) generate(ctx context.Context, cm model.BaseChatModel, messages []*schema.Message) (*schema.Message, error) {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: base, 2*base, 4*base
			delay := a.baseDelay * time.Duration(1<<uint(attempt-1))
			log.Printf("LLM request failed, retrying after %v (attempt %d/%d): %v", delay, attempt, a.maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		a.rateLimit()
		resp, err := cm.Generate(ctx, messages)
		if err == nil {
			if resp == nil {
				return nil, ErrEmptyAnswer
			}
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isTransient(err) {
			break
		}
	}
	return nil, fmt.Errorf("failed to generate response: %w", lastErr)
}

// isTransient reports whether a model error is worth retrying.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "rate limit", "too many requests",
		"status code: 500", "status code: 502", "status code: 503", "status code: 504",
		"connection reset", "connection refused", "eof", "timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
