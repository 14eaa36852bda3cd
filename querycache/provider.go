package querycache

import "sync"

// Provider supplies one shared client to a whole component tree.
//
// A provider given a client hands that instance out unchanged. A provider
// given nil builds its own client exactly once, on first use, and keeps
// returning the same instance. Swapping in a different client instance via
// SetClient replaces the shared one; passing the instance already held is
// a no-op.
type Provider struct {
	mu       sync.Mutex
	cfg      ClientConfig
	supplied *Client
	built    *Client
}

// NewProvider creates a provider. client may be nil, in which case cfg is
// used to build one lazily.
func NewProvider(client *Client, cfg ClientConfig) *Provider {
	return &Provider{
		cfg:      cfg,
		supplied: client,
	}
}

// Client returns the shared client, building it on first use when none
// was supplied.
func (p *Provider) Client() *Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.supplied != nil {
		return p.supplied
	}
	if p.built == nil {
		p.built = NewClient(p.cfg)
	}
	return p.built
}

// SetClient swaps the supplied client. Passing the instance the provider
// already holds changes nothing; passing nil reverts to the lazily built
// client.
func (p *Provider) SetClient(c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.supplied = c
}
