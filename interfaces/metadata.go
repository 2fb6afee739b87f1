package interfaces

import "context"

// TokenAttribute is one ERC-721 metadata attribute.
type TokenAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// TokenMetadata is the ERC-721 metadata document of a BlockWard.
type TokenMetadata struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Image       string           `json:"image"`
	Attributes  []TokenAttribute `json:"attributes"`
}

// MetadataPublisher turns token metadata into the URI passed to mint.
type MetadataPublisher interface {
	Publish(ctx context.Context, metadata *TokenMetadata) (string, error)

	// Name returns identifier for logging.
	Name() string
}

// IdempotencyGuard deduplicates issuance requests carrying the same key.
type IdempotencyGuard interface {
	// Begin reserves key. It returns the stored response when the key already
	// completed, or ErrRequestInFlight when another request holds it.
	Begin(ctx context.Context, key string) ([]byte, error)

	// Complete stores the response for key.
	Complete(ctx context.Context, key string, response []byte) error

	// Release drops the reservation so the request may be retried.
	Release(ctx context.Context, key string) error
}
