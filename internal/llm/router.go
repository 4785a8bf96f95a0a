package llm

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/conversalabs/conversa/internal/config"
)

// Router routes model requests to the primary provider and falls back
// through the remaining providers in registration order on failure.
// It satisfies Provider itself, so callers never care how many
// backends sit behind it.
type Router struct {
	mu         sync.RWMutex
	providers  map[string]Provider
	order      []string
	primary    string
	maxRetries int
	retryDelay time.Duration
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithMaxRetries sets the maximum number of retry attempts per provider.
func WithMaxRetries(n int) RouterOption {
	return func(r *Router) { r.maxRetries = n }
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) RouterOption {
	return func(r *Router) { r.retryDelay = d }
}

// NewRouter creates a router with the given primary provider name.
func NewRouter(primary string, opts ...RouterOption) *Router {
	r := &Router{
		providers:  make(map[string]Provider),
		primary:    primary,
		maxRetries: 2,
		retryDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRouterFromConfig builds a router from the LLM configuration,
// registering every configured backend. Returns ErrNoProviders when
// nothing is configured; the caller then runs purely on heuristics.
func NewRouterFromConfig(cfg *config.Config) (*Router, error) {
	r := NewRouter(cfg.LLM.Primary)
	opts := Options{Temperature: cfg.LLM.Temperature, MaxTokens: cfg.LLM.MaxTokens}

	if cfg.LLM.OpenAIKey != "" {
		p, err := NewOpenAIProvider(cfg.LLM.OpenAIKey,
			WithOpenAIModel(cfg.LLM.OpenAIModel),
			WithOpenAIOptions(opts))
		if err != nil {
			return nil, err
		}
		r.RegisterProvider(p)
	}
	if cfg.LLM.OllamaURL != "" && cfg.LLM.OllamaModel != "" {
		// Ollama is only registered when it answers a ping; a configured
		// but absent local server should not slow every request down.
		p, err := NewOllamaProvider(cfg.LLM.OllamaURL,
			WithOllamaModel(cfg.LLM.OllamaModel),
			WithOllamaOptions(opts))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err == nil {
			r.RegisterProvider(p)
		} else {
			log.Printf("llm: ollama at %s not reachable, skipping: %v", cfg.LLM.OllamaURL, err)
		}
	}

	if len(r.order) == 0 {
		return nil, ErrNoProviders
	}
	return r, nil
}

// RegisterProvider adds a provider to the router.
func (r *Router) RegisterProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// GetProvider returns a registered provider by name.
func (r *Router) GetProvider(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

func (r *Router) Name() string { return "router" }

// Classify routes a classification through the provider chain.
func (r *Router) Classify(ctx context.Context, text string) (Classification, error) {
	var out Classification
	err := r.call(ctx, func(ctx context.Context, p Provider) error {
		var err error
		out, err = p.Classify(ctx, text)
		return err
	})
	return out, err
}

// Summarize routes a summarization through the provider chain.
func (r *Router) Summarize(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.call(ctx, func(ctx context.Context, p Provider) error {
		var err error
		out, err = p.Summarize(ctx, prompt)
		return err
	})
	return out, err
}

// call tries the primary provider first, then the rest of the chain,
// retrying each provider up to maxRetries times.
func (r *Router) call(ctx context.Context, fn func(context.Context, Provider) error) error {
	chain := r.providerChain()
	if len(chain) == 0 {
		return ErrNoProviders
	}

	var lastErr error
	for _, name := range chain {
		p, ok := r.GetProvider(name)
		if !ok {
			continue
		}
		for attempt := 0; attempt <= r.maxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(r.retryDelay * time.Duration(attempt)):
				}
			}
			if err := fn(ctx, p); err == nil {
				return nil
			} else {
				lastErr = err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		log.Printf("llm/router: provider %s failed: %v, trying next", name, lastErr)
	}
	return lastErr
}

// providerChain returns the primary provider followed by the remaining
// registered providers in registration order.
func (r *Router) providerChain() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := make([]string, 0, len(r.order))
	if _, ok := r.providers[r.primary]; ok {
		chain = append(chain, r.primary)
	}
	for _, name := range r.order {
		if name != r.primary {
			chain = append(chain, name)
		}
	}
	return chain
}
