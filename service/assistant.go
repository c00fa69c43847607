package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"google.golang.org/genai"
)

// ErrAssistantDisabled is returned by Chat when no model is configured
var ErrAssistantDisabled = errors.New("assistant is not configured")

// ChatMessage is one turn of a conversation as the browser keeps it
type ChatMessage struct {
	Role string `json:"role"` // user or ai
	Text string `json:"text"`
}

// Generator produces text from a conversation
type Generator interface {
	Generate(ctx context.Context, system string, contents []*genai.Content) (string, error)
}

// GenAIGenerator calls a hosted Gemini model
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

func NewGenAIGenerator(ctx context.Context, cfg *config.AssistantConfig) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client, model: cfg.Model}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, system string, contents []*genai.Content) (string, error) {
	var gc *genai.GenerateContentConfig
	if system != "" {
		gc = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, gc)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}

// Assistant answers dashboard insight and chat requests
type Assistant struct {
	gen      Generator
	fallback string
}

// NewAssistant builds an assistant; a nil generator disables it.
func NewAssistant(gen Generator, fallback string) *Assistant {
	return &Assistant{gen: gen, fallback: fallback}
}

func (a *Assistant) Enabled() bool {
	return a.gen != nil
}

// Insight returns a short executive insight for the dashboard. It never
// fails: any error yields the fallback text.
func (a *Assistant) Insight(ctx context.Context, e *model.Employee, dashboardContext string) string {
	if a.gen == nil {
		return a.fallback
	}

	prompt := fmt.Sprintf(`User Role: %s
Designation: %s
Department: %s
Dashboard Context: %s

You are the AARAA Infrastructure AI Assistant. Provide a short, executive insight based on this role and context.
Be concise, professional, and minimalistic.
Highlight any potential anomalies or key areas of focus.
Do not apologize.
Maximum 3 sentences.`, e.Role, e.Designation, e.Department, dashboardContext)

	text, err := a.gen.Generate(ctx, "", []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)})
	if err != nil {
		logger.Warn(ctx, "insight generation failed", "error", err)
		return a.fallback
	}
	return text
}

// Chat continues a conversation with the enterprise assistant
func (a *Assistant) Chat(ctx context.Context, e *model.Employee, history []ChatMessage, message string) (string, error) {
	if a.gen == nil {
		return "", ErrAssistantDisabled
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Text, chatRole(m.Role)))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	text, err := a.gen.Generate(ctx, systemInstruction(e), contents)
	if err != nil {
		logger.Error(ctx, "chat generation failed", "error", err)
		return "", err
	}
	return text, nil
}

func chatRole(role string) genai.Role {
	if strings.EqualFold(role, "ai") || strings.EqualFold(role, "model") {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func systemInstruction(e *model.Employee) string {
	return fmt.Sprintf(`You are the AARAA Infrastructure Enterprise AI.
The current user is %s (%s) in the %s department.
Their role is %s.
Provide professional decision support.
Reference the company branding (excellence, infrastructure, premium).
Keep answers short and actionable.`, e.Name, e.Designation, e.Department, e.Role)
}
