package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"chatlens/internal/config"
	"chatlens/internal/models"
	"chatlens/internal/redis"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

const (
	maxOutputTokens = 2048
	temperature     = 0.7

	notConfiguredReply = "Warning: the AI service is not configured. Set an API key to enable replies."
)

// Gateway issues the multimodal chat request and normalizes every failure
// mode into a reply string. A gateway without a credential is still a valid
// gateway; it answers with a fixed warning and never touches the network.
type Gateway struct {
	chatModel model.BaseChatModel
	cache     *redis.Client
	cacheTTL  time.Duration
	timeout   time.Duration
}

// New constructs the gateway for the given provider (defaults to gemini).
// A missing API key yields an unconfigured gateway, not an error; a broken
// provider setup does error.
func New(ctx context.Context, provider string, cfg *config.Config, cache *redis.Client) (*Gateway, error) {
	if provider == "" {
		provider = "gemini"
	}
	g := &Gateway{
		cache:    cache,
		cacheTTL: time.Duration(cfg.Redis.ReplyCacheTTL) * time.Minute,
		timeout:  time.Duration(cfg.BasicConfig.ChatTimeout) * time.Second,
	}

	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	if provCfg.APIKey == "" {
		log.Printf("no API key for provider %s, gateway runs unconfigured", provider)
		return g, nil
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch provider {
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: maxOutputTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	g.chatModel = chatModel
	return g, nil
}

// Available reports whether the gateway holds a usable model client.
func (g *Gateway) Available() bool {
	return g != nil && g.chatModel != nil
}

// Reply sends the composed request and returns the model's text. Every
// failure resolves to a reply string; callers never see an error.
func (g *Gateway) Reply(ctx context.Context, message string, payload models.ContextPayload) string {
	if !g.Available() {
		return notConfiguredReply
	}

	key := replyCacheKey(message, payload)
	if cached, err := g.cache.Get(ctx, key); err == nil {
		return cached
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.chatModel.Generate(callCtx, composeMessages(message, payload),
		model.WithMaxTokens(maxOutputTokens),
		model.WithTemperature(temperature))
	if err != nil {
		log.Printf("chat model call failed: %v", err)
		return fmt.Sprintf("Warning: the AI service could not process this request: %v", err)
	}

	if g.cacheTTL > 0 {
		if err := g.cache.Set(ctx, key, resp.Content, g.cacheTTL); err != nil {
			log.Printf("cache reply failed: %v", err)
		}
	}
	return resp.Content
}

// replyCacheKey digests the full request so identical prompts with
// identical attachments share a cache slot.
func replyCacheKey(message string, payload models.ContextPayload) string {
	h := sha256.New()
	h.Write([]byte(message))
	h.Write([]byte{0})
	h.Write([]byte(payload.Kind))
	h.Write([]byte{0})
	h.Write([]byte(payload.Text))
	h.Write([]byte(payload.Image))
	for _, frame := range payload.Frames {
		h.Write([]byte(frame.Data))
	}
	return "chatlens:reply:" + hex.EncodeToString(h.Sum(nil))
}
