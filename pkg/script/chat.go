package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"podforge/internal/httpc"
)

// ChatGenerator produces scripts through an OpenAI-compatible
// chat-completions API (OpenAI, Ollama, vLLM, Together, Groq, etc.).
type ChatGenerator struct {
	baseURL string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewChatGenerator creates a new chat-based script generator.
func NewChatGenerator(opts ...Option) (*ChatGenerator, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	return &ChatGenerator{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		config:  cfg,
		http:    httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "script.chat"),
	}, nil
}

// chat API wire types, OpenAI chat-completions shape.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatReply struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate calls the provider and parses the reply into script segments.
func (g *ChatGenerator) Generate(ctx context.Context, req Request) ([]Segment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, wrapGeneration(ErrEmptyDocument)
	}

	start := time.Now()

	payload := chatPayload{
		Model: g.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Style, req.Length)},
			{Role: "user", Content: userPrompt(req)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, wrapGeneration(fmt.Errorf("marshal payload: %w", err))
	}

	content, err := g.complete(ctx, body)
	if err != nil {
		return nil, wrapGeneration(err)
	}

	segments, err := Parse(content)
	if err != nil {
		return nil, wrapGeneration(err)
	}

	g.logger.Info("script generated",
		"segments", len(segments),
		"style", req.Style,
		"length", req.Length,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return segments, nil
}

// complete performs the chat request, retrying transient failures.
func (g *ChatGenerator) complete(ctx context.Context, body []byte) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(g.config.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		if g.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("provider returned %d", resp.StatusCode)
			g.logger.Warn("provider error, retrying",
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
			continue
		}

		var reply chatReply
		if err := json.Unmarshal(raw, &reply); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			msg := strings.TrimSpace(string(raw))
			if reply.Error != nil {
				msg = reply.Error.Message
			}
			return "", fmt.Errorf("provider returned %d: %s", resp.StatusCode, msg)
		}
		if len(reply.Choices) == 0 {
			return "", ErrEmptyScript
		}

		return reply.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("provider unreachable after %d attempts: %w", g.config.MaxRetries+1, lastErr)
}

// systemPrompt builds the structural contract for the dialogue.
func systemPrompt(style Style, length Length) string {
	return fmt.Sprintf(`You are a podcast script writer. Write a dialogue between exactly two hosts, "Speaker 1" and "Speaker 2", discussing the document provided by the user.

Rules:
- Output plain text only, one line per turn, formatted exactly as "Speaker 1: ..." or "Speaker 2: ...".
- Speakers strictly alternate, starting with Speaker 1.
- Produce approximately %d lines total.
- Tone: %s.
- No headings, stage directions, or commentary outside the dialogue lines.`,
		LineTarget(length), toneFor(style))
}

// userPrompt wraps the document for the provider.
func userPrompt(req Request) string {
	return fmt.Sprintf("Document title: %s\n\nDocument content:\n%s", req.Title, req.Content)
}

// toneFor maps a style to its tone instruction.
func toneFor(style Style) string {
	switch style {
	case StyleInterview:
		return "an interview, Speaker 1 asks informed questions and Speaker 2 answers as the expert"
	case StyleEducational:
		return "clear and instructive, explaining concepts step by step for a general audience"
	case StyleDebate:
		return "a friendly debate, the speakers take opposing positions and challenge each other"
	default:
		return "warm and conversational, like two friends who find the topic genuinely interesting"
	}
}

// Verify ChatGenerator implements Generator at compile time.
var _ Generator = (*ChatGenerator)(nil)
