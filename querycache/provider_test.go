package querycache

import (
	"context"
	"testing"
)

// TestProvider_SuppliedClient verifies a supplied client is handed out as-is.
func TestProvider_SuppliedClient(t *testing.T) {
	supplied := testClient()
	p := NewProvider(supplied, ClientConfig{})

	if p.Client() != supplied {
		t.Error("provider did not return the supplied client")
	}
}

// TestProvider_BuildsOnce verifies lazy construct-once semantics.
func TestProvider_BuildsOnce(t *testing.T) {
	p := NewProvider(nil, ClientConfig{})

	first := p.Client()
	if first == nil {
		t.Fatal("provider returned nil client")
	}
	if p.Client() != first {
		t.Error("provider built a second client")
	}
}

// TestProvider_SetClient verifies swapping and reverting the shared client.
func TestProvider_SetClient(t *testing.T) {
	p := NewProvider(nil, ClientConfig{})
	built := p.Client()

	replacement := testClient()
	p.SetClient(replacement)
	if p.Client() != replacement {
		t.Error("provider did not swap to the new client")
	}

	p.SetClient(nil)
	if p.Client() != built {
		t.Error("provider did not revert to its built client")
	}
}

// TestContext_ClientRoundTrip verifies context injection.
func TestContext_ClientRoundTrip(t *testing.T) {
	if got := ClientFromContext(context.Background()); got != nil {
		t.Errorf("ClientFromContext on empty ctx = %v, want nil", got)
	}

	c := testClient()
	ctx := WithClient(context.Background(), c)
	if got := ClientFromContext(ctx); got != c {
		t.Error("client did not round-trip through context")
	}
}
