package pinata_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/mocks"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
	"github.com/loyaltytoken/loyalty-platform/internal/ratelimit"
)

func TestWithRateLimitNilProxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	inner := mocks.NewMockContentStore(ctrl)

	assert.Equal(t, pinata.ContentStore(inner), pinata.WithRateLimit(inner, nil))
}

func TestWithRateLimitRoutesThroughProxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	inner := mocks.NewMockContentStore(ctrl)
	proxy := mocks.NewMockRateLimitProxy(ctrl)
	cid := domain.CID("QmS4ustL54uo8FzR9455qaxZwuMiUhyvMcX9Ba8nUH4uVv")

	// The proxy executes the request function once a token is acquired
	proxy.EXPECT().
		Request(gomock.Any(), ratelimit.ProviderPinata, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn ratelimit.RequestFunc) (interface{}, error) {
			return fn(ctx)
		}).
		Times(3)

	inner.EXPECT().UploadJSON(gomock.Any(), gomock.Any(), "metadata.json").Return(cid, nil)
	inner.EXPECT().UploadFile(gomock.Any(), []byte("pdf"), "cert.pdf").Return(cid, nil)
	inner.EXPECT().Fetch(gomock.Any(), cid).Return([]byte("content"), nil)

	store := pinata.WithRateLimit(inner, proxy)
	ctx := context.Background()

	got, err := store.UploadJSON(ctx, map[string]string{"name": "x"}, "metadata.json")
	require.NoError(t, err)
	assert.Equal(t, cid, got)

	got, err = store.UploadFile(ctx, []byte("pdf"), "cert.pdf")
	require.NoError(t, err)
	assert.Equal(t, cid, got)

	content, err := store.Fetch(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), content)
}
