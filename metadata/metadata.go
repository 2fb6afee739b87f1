// Package metadata builds BlockWard token metadata and publishes it as a token URI.
package metadata

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/blockward/blockward-backend/interfaces"
)

// DataURIPrefix prefixes inline JSON metadata.
const DataURIPrefix = "data:application/json;base64,"

const placeholderImageBase = "https://via.placeholder.com/400x400.png?text="

// ErrNotDataURI is returned when decoding a URI without DataURIPrefix.
var ErrNotDataURI = errors.New("not a base64 JSON data URI")

// Award describes what is being minted.
type Award struct {
	Title       string
	Description string
	Category    string
	StudentName string
	IssuedAt    time.Time
}

// Build returns the ERC-721 metadata of an award.
func Build(a Award) *interfaces.TokenMetadata {
	return &interfaces.TokenMetadata{
		Name:        a.Title,
		Description: a.Description,
		Category:    a.Category,
		Image:       PlaceholderImage(a.Title),
		Attributes: []interfaces.TokenAttribute{
			{TraitType: "Category", Value: a.Category},
			{TraitType: "Student", Value: a.StudentName},
			{TraitType: "Issued Date", Value: a.IssuedAt.UTC().Format(time.RFC3339)},
		},
	}
}

// PlaceholderImage derives a deterministic image URL from the title.
func PlaceholderImage(title string) string {
	return placeholderImageBase + url.QueryEscape(title)
}

// EncodeDataURI serializes metadata into a base64 JSON data URI.
func EncodeDataURI(m *interfaces.TokenMetadata) (string, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	return DataURIPrefix + base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeDataURI parses a URI produced by EncodeDataURI.
func DecodeDataURI(uri string) (*interfaces.TokenMetadata, error) {
	encoded, ok := strings.CutPrefix(uri, DataURIPrefix)
	if !ok {
		return nil, ErrNotDataURI
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDataURI, err)
	}

	var m interfaces.TokenMetadata
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDataURI, err)
	}
	return &m, nil
}
