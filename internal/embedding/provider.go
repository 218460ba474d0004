package embedding

import (
	"log/slog"
	"sync"

	"github.com/reloophq/waste-exchange/api/internal/config"
)

// Provider hands out a single shared Embedder, constructed on first use.
// Model setup is expensive, so construction happens at most once per
// process even under concurrent first use; subsequent calls reuse the
// instance. Construct one Provider at startup and inject it wherever
// semantic similarity is needed.
type Provider struct {
	cfg  config.EmbeddingConfig
	once sync.Once
	emb  Embedder
	err  error
}

// NewProvider prepares a lazy provider. No connection is made until the
// first Embedder call.
func NewProvider(cfg config.EmbeddingConfig) *Provider {
	return &Provider{cfg: cfg}
}

// NewStaticProvider wraps an already-built embedder; used by tests.
func NewStaticProvider(emb Embedder) *Provider {
	p := &Provider{}
	p.once.Do(func() { p.emb = emb })
	return p
}

// Embedder returns the shared embedder, initializing it on first call.
// The initialization outcome, success or failure, is sticky.
func (p *Provider) Embedder() (Embedder, error) {
	p.once.Do(func() {
		slog.Default().Info("initializing embedding provider", "model", p.cfg.Model)
		p.emb, p.err = NewOpenAIEmbedder(p.cfg)
	})
	return p.emb, p.err
}
