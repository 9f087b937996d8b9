package pinata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/adapter"
	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
)

const (
	PINATA_PROVIDER_NAME = "pinata"

	pinJSONPath = "/pinning/pinJSONToIPFS"
	pinFilePath = "/pinning/pinFileToIPFS"
)

// Config holds configuration for the Pinata pinning service
type Config struct {
	// APIURL is the Pinata API base URL, e.g. https://api.pinata.cloud
	APIURL string
	// GatewayURL is the IPFS gateway used for retrieval
	GatewayURL string
	// APIKey and APISecret authenticate pinning requests
	APIKey    string
	APISecret string
}

// ContentStore is the content-addressed blob store boundary. Uploads are
// idempotent per content: byte-identical payloads pin to the same CID, so
// callers never need separate uniqueness bookkeeping.
//
//go:generate mockgen -source=client.go -destination=../../mocks/contentstore.go -package=mocks -mock_names=ContentStore=MockContentStore
type ContentStore interface {
	// UploadJSON pins a JSON document and returns its CID
	UploadJSON(ctx context.Context, payload interface{}, name string) (domain.CID, error)

	// UploadFile pins raw bytes under the given name and returns their CID
	UploadFile(ctx context.Context, content []byte, name string) (domain.CID, error)

	// Fetch retrieves content by CID through the gateway
	Fetch(ctx context.Context, cid domain.CID) ([]byte, error)
}

type client struct {
	httpClient adapter.HTTPClient
	config     *Config
}

// NewClient creates a Pinata-backed content store client
func NewClient(httpClient adapter.HTTPClient, config *Config) ContentStore {
	return &client{httpClient: httpClient, config: config}
}

// pinResponse is the relevant slice of Pinata's pinning response
type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (c *client) authHeaders() map[string]string {
	return map[string]string{
		"pinata_api_key":        c.config.APIKey,
		"pinata_secret_api_key": c.config.APISecret,
	}
}

func (c *client) UploadJSON(ctx context.Context, payload interface{}, name string) (domain.CID, error) {
	body := map[string]interface{}{
		"pinataContent": payload,
		"pinataMetadata": map[string]string{
			"name": name,
		},
	}

	respBody, err := c.httpClient.PostJSON(ctx, c.config.APIURL+pinJSONPath, c.authHeaders(), body)
	if err != nil {
		return "", fmt.Errorf("%w: pin json: %v", domain.ErrStoreUnavailable, err)
	}
	return c.parsePinResponse(ctx, respBody, name)
}

func (c *client) UploadFile(ctx context.Context, content []byte, name string) (domain.CID, error) {
	metadata, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return "", fmt.Errorf("failed to encode pin metadata: %w", err)
	}
	form := map[string]string{"pinataMetadata": string(metadata)}

	respBody, err := c.httpClient.PostFile(ctx, c.config.APIURL+pinFilePath, c.authHeaders(), "file", name, content, form)
	if err != nil {
		return "", fmt.Errorf("%w: pin file: %v", domain.ErrStoreUnavailable, err)
	}
	return c.parsePinResponse(ctx, respBody, name)
}

func (c *client) Fetch(ctx context.Context, cid domain.CID) ([]byte, error) {
	url := fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(c.config.GatewayURL, "/"), cid)

	content, err := c.httpClient.GetBytes(ctx, url, nil)
	if err != nil {
		if errors.Is(err, adapter.ErrStatusNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCIDNotFound, cid)
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrStoreUnavailable, cid, err)
	}
	return content, nil
}

func (c *client) parsePinResponse(ctx context.Context, respBody []byte, name string) (domain.CID, error) {
	var resp pinResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed pin response: %v", domain.ErrStoreUnavailable, err)
	}
	if resp.IpfsHash == "" {
		return "", fmt.Errorf("%w: pin response missing hash", domain.ErrStoreUnavailable)
	}

	logger.DebugCtx(ctx, "Pinned content",
		zap.String("name", name),
		zap.String("cid", resp.IpfsHash),
	)
	return domain.CID(resp.IpfsHash), nil
}
