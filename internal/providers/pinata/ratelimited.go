package pinata

import (
	"context"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ratelimit"
)

// rateLimited routes every Pinata call through the outbound rate limit
// proxy so replicas share the pinning quota
type rateLimited struct {
	inner ContentStore
	proxy ratelimit.Proxy
}

// WithRateLimit wraps a content store with the outbound rate limiter. A nil
// proxy returns the store unchanged.
func WithRateLimit(inner ContentStore, proxy ratelimit.Proxy) ContentStore {
	if proxy == nil {
		return inner
	}
	return &rateLimited{inner: inner, proxy: proxy}
}

func (r *rateLimited) UploadJSON(ctx context.Context, payload interface{}, name string) (domain.CID, error) {
	return ratelimit.Request[domain.CID](ctx, r.proxy, ratelimit.ProviderPinata, func(ctx context.Context) (domain.CID, error) {
		return r.inner.UploadJSON(ctx, payload, name)
	})
}

func (r *rateLimited) UploadFile(ctx context.Context, content []byte, name string) (domain.CID, error) {
	return ratelimit.Request[domain.CID](ctx, r.proxy, ratelimit.ProviderPinata, func(ctx context.Context) (domain.CID, error) {
		return r.inner.UploadFile(ctx, content, name)
	})
}

func (r *rateLimited) Fetch(ctx context.Context, cid domain.CID) ([]byte, error) {
	return ratelimit.Request[[]byte](ctx, r.proxy, ratelimit.ProviderPinata, func(ctx context.Context) ([]byte, error) {
		return r.inner.Fetch(ctx, cid)
	})
}
