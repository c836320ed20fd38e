package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultChatModelName = "gemini-2.5-flash"

var ErrMissingCredentials = errors.New("gemini API key is not configured")

// Remote is the hosted language-model service.
type Remote interface {
	CreateSession(ctx context.Context, systemInstruction string) (Session, error)
}

// Session is one ongoing conversation with the remote service. It keeps its
// own history and is not safe for concurrent use.
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// GeminiRemote creates chat sessions on the Gemini API. The client is
// created on first use so a missing key only fails session creation.
type GeminiRemote struct {
	apiKey    string
	modelName string

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiRemote(apiKey, modelName string) *GeminiRemote {
	if modelName == "" {
		modelName = defaultChatModelName
	}
	return &GeminiRemote{apiKey: apiKey, modelName: modelName}
}

func (r *GeminiRemote) CreateSession(ctx context.Context, systemInstruction string) (Session, error) {
	client, err := r.getClient(ctx)
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(r.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	return &geminiSession{chat: model.StartChat()}, nil
}

func (r *GeminiRemote) getClient(ctx context.Context) (*genai.Client, error) {
	if r.apiKey == "" {
		return nil, ErrMissingCredentials
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(r.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	r.client = client
	return client, nil
}

func (r *GeminiRemote) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
		r.client = nil
	}
}

type geminiSession struct {
	chat *genai.ChatSession
}

// Send returns the concatenated text parts of the reply; an empty string
// means the model answered without usable text.
func (s *geminiSession) Send(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Println("Gemini response was empty or had no valid candidates.")
		return "", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return responseText.String(), nil
}
