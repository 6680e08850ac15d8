// Package llm provides a minimal multi-provider LLM client used as the
// generation backend for social drafts.
//
// The client never reads the environment itself. Callers pass keys through
// Config, typically built with KeysFromEnv.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorewood/contentbot/internal/output"
)

// Provider represents an LLM provider.
type Provider string

// Supported LLM providers.
const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenAI     Provider = "openai"
	ProviderGoogle     Provider = "google"
	ProviderLocal      Provider = "local"
)

// DefaultModel is the OpenRouter model used when none is configured.
const DefaultModel = "anthropic/claude-3.5-sonnet"

// DefaultLocalURL is the LM Studio default endpoint.
const DefaultLocalURL = "http://localhost:1234/v1"

// Request represents an LLM completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64 // 0 uses the provider default
	MaxTokens   int     // 0 uses the provider default
}

// Response represents an LLM completion response.
type Response struct {
	Content string
	Model   string
}

// HTTPDoer defines the HTTP operations required by Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Keys holds one API key per cloud provider.
type Keys struct {
	OpenRouter string
	Anthropic  string
	OpenAI     string
	Google     string
}

// Config selects and configures a backend.
type Config struct {
	// Provider may be empty; it is then inferred from Model.
	Provider Provider
	// Model may be a full name, an alias such as "haiku", or a combined
	// form such as "claude-haiku". Empty selects the provider default.
	Model string
	Keys  Keys
	// LocalURL is the base URL of an OpenAI-compatible local server.
	LocalURL string
	// BaseURL overrides the provider endpoint base, for proxies and tests.
	BaseURL    string
	HTTPClient HTTPDoer
}

// Client is a provider-agnostic LLM client.
type Client struct {
	provider   Provider
	model      string
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// New creates a client from cfg. A missing API key for the selected cloud
// provider is a user error naming the variable to set.
func New(cfg Config) (*Client, error) {
	provider, model := resolveProvider(cfg.Provider, cfg.Model)

	if _, ok := envVarsForProvider[provider]; !ok {
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", provider))
	}

	model = resolveModelAlias(model, provider)
	if model == "" {
		model = defaultModels[provider]
	}

	apiKey, err := apiKeyFor(provider, cfg.Keys)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL(provider, cfg.LocalURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	return &Client{
		provider:   provider,
		model:      model,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Provider returns the resolved provider.
func (c *Client) Provider() Provider { return c.provider }

// Model returns the resolved model name.
func (c *Client) Model() string { return c.model }

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	switch c.provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderLocal:
		return c.completeChat(ctx, req)
	case ProviderAnthropic:
		return c.completeAnthropic(ctx, req)
	case ProviderGoogle:
		return c.completeGoogle(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
}

// providerPrefixes maps explicit prefixes to providers for combined names.
var providerPrefixes = []struct {
	prefix   string
	provider Provider
}{
	{"openrouter:", ProviderOpenRouter},
	{"claude-", ProviderAnthropic},
	{"anthropic-", ProviderAnthropic},
	{"gemini-", ProviderGoogle},
	{"google-", ProviderGoogle},
	{"openai-", ProviderOpenAI},
	{"local-", ProviderLocal},
}

// parseProviderPrefix extracts a provider from a name like "claude-haiku".
func parseProviderPrefix(model string) (Provider, string) {
	lower := strings.ToLower(model)
	for _, p := range providerPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.provider, model[len(p.prefix):]
		}
	}
	return "", model
}

// providerPatterns are checked in order; first match wins.
var providerPatterns = []struct {
	substring string
	provider  Provider
}{
	{"claude", ProviderAnthropic},
	{"haiku", ProviderAnthropic},
	{"sonnet", ProviderAnthropic},
	{"opus", ProviderAnthropic},
	{"gemini", ProviderGoogle},
	{"flash", ProviderGoogle},
	{"gpt", ProviderOpenAI},
	{"mini", ProviderOpenAI},
	{"local", ProviderLocal},
	{"llama", ProviderLocal},
	{"qwen", ProviderLocal},
	{"mistral", ProviderLocal},
}

// resolveProvider picks the provider. OpenRouter model names always carry
// a vendor path ("anthropic/claude-3.5-sonnet"), so any name with a slash
// goes to OpenRouter, as does an empty name.
func resolveProvider(provider Provider, model string) (Provider, string) {
	if provider != "" {
		return Provider(strings.ToLower(string(provider))), model
	}
	if model == "" || strings.Contains(model, "/") {
		return ProviderOpenRouter, model
	}
	if p, rest := parseProviderPrefix(model); p != "" {
		return p, rest
	}
	lower := strings.ToLower(model)
	for _, p := range providerPatterns {
		if strings.Contains(lower, p.substring) {
			return p.provider, model
		}
	}
	return ProviderOpenRouter, model
}

var modelAliases = map[Provider]map[string]string{
	ProviderOpenRouter: {
		"sonnet": DefaultModel,
		"haiku":  "anthropic/claude-3.5-haiku",
	},
	ProviderAnthropic: {
		"haiku":  "claude-haiku-4-5-20251001",
		"sonnet": "claude-sonnet-4-5-20250929",
	},
	ProviderOpenAI: {
		"mini": "gpt-5-mini",
		"nano": "gpt-5-nano",
	},
	ProviderGoogle: {
		"flash": "gemini-2.5-flash",
		"pro":   "gemini-2.5-pro",
	},
}

var defaultModels = map[Provider]string{
	ProviderOpenRouter: DefaultModel,
	ProviderAnthropic:  "claude-sonnet-4-5-20250929",
	ProviderOpenAI:     "gpt-5-mini",
	ProviderGoogle:     "gemini-2.5-flash",
	ProviderLocal:      "default",
}

// resolveModelAlias expands shorthand aliases and passes through unknown names.
func resolveModelAlias(model string, provider Provider) string {
	if aliases, ok := modelAliases[provider]; ok {
		if resolved, ok := aliases[strings.ToLower(model)]; ok {
			return resolved
		}
	}
	return model
}

// envVarsForProvider lists the variables that may hold each provider's key,
// in lookup order. The local provider needs none.
var envVarsForProvider = map[Provider][]string{
	ProviderOpenRouter: {"API", "OPENROUTER_API_KEY"},
	ProviderAnthropic:  {"ANTHROPIC_API_KEY"},
	ProviderOpenAI:     {"OPENAI_API_KEY"},
	ProviderGoogle:     {"GOOGLE_API_KEY"},
	ProviderLocal:      nil,
}

// KeysFromEnv builds Keys using getenv, usually os.Getenv.
func KeysFromEnv(getenv func(string) string) Keys {
	first := func(p Provider) string {
		for _, name := range envVarsForProvider[p] {
			if v := strings.TrimSpace(getenv(name)); v != "" {
				return v
			}
		}
		return ""
	}
	return Keys{
		OpenRouter: first(ProviderOpenRouter),
		Anthropic:  first(ProviderAnthropic),
		OpenAI:     first(ProviderOpenAI),
		Google:     first(ProviderGoogle),
	}
}

func apiKeyFor(provider Provider, keys Keys) (string, error) {
	var key string
	switch provider {
	case ProviderOpenRouter:
		key = keys.OpenRouter
	case ProviderAnthropic:
		key = keys.Anthropic
	case ProviderOpenAI:
		key = keys.OpenAI
	case ProviderGoogle:
		key = keys.Google
	case ProviderLocal:
		return "", nil
	}
	if key == "" {
		vars := envVarsForProvider[provider]
		return "", output.NewUserError(strings.Join(vars, " or ") + " environment variable not set")
	}
	return key, nil
}

func defaultBaseURL(provider Provider, localURL string) string {
	switch provider {
	case ProviderOpenRouter:
		return "https://openrouter.ai/api/v1"
	case ProviderAnthropic:
		return "https://api.anthropic.com/v1"
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderGoogle:
		return "https://generativelanguage.googleapis.com/v1beta"
	default:
		if localURL != "" {
			return localURL
		}
		return DefaultLocalURL
	}
}

// SupportedProviders returns the provider names accepted by --provider.
func SupportedProviders() []string {
	return []string{
		string(ProviderOpenRouter),
		string(ProviderAnthropic),
		string(ProviderOpenAI),
		string(ProviderGoogle),
		string(ProviderLocal),
	}
}

// APIKeyEnvVars returns every environment variable consulted for API keys.
func APIKeyEnvVars() []string {
	var vars []string
	for _, p := range []Provider{ProviderOpenRouter, ProviderAnthropic, ProviderOpenAI, ProviderGoogle} {
		vars = append(vars, envVarsForProvider[p]...)
	}
	return vars
}
