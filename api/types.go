package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blockward/blockward-backend/interfaces"
)

// MaxBodySize is the maximum accepted request body (1MB).
const MaxBodySize = 1024 * 1024

// IssueRequest is the body of POST /api/blockwards/issue.
type IssueRequest struct {
	StudentID   string `json:"studentId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// ValidatedRequest is an IssueRequest whose required fields are present and trimmed.
// It is only produced by ValidateIssueRequest.
type ValidatedRequest struct {
	StudentID   string
	Title       string
	Category    string
	Description string
}

// ValidateIssueRequest decodes body and checks required fields. On failure it
// returns a validation *RequestError naming the missing fields.
func ValidateIssueRequest(body io.Reader) (ValidatedRequest, error) {
	var req IssueRequest
	dec := json.NewDecoder(io.LimitReader(body, MaxBodySize))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return ValidatedRequest{}, ValidationError("Missing required fields: studentId, title, category")
		}
		return ValidatedRequest{}, ValidationError(fmt.Sprintf("Invalid JSON body: %v", err))
	}

	v := ValidatedRequest{
		StudentID:   strings.TrimSpace(req.StudentID),
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
	}

	var missing []string
	if v.StudentID == "" {
		missing = append(missing, "studentId")
	}
	if v.Title == "" {
		missing = append(missing, "title")
	}
	if v.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return ValidatedRequest{}, ValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}
	return v, nil
}

// IssueResponse is returned after a confirmed mint.
type IssueResponse struct {
	Success     bool   `json:"success"`
	TxHash      string `json:"txHash"`
	TokenID     string `json:"tokenId"`
	Network     string `json:"network"`
	ExplorerURL string `json:"explorerUrl"`
	BlockNumber uint64 `json:"blockNumber"`
}

// HealthResponse is returned by a successful chain health check.
type HealthResponse struct {
	Success bool   `json:"success"`
	Address string `json:"address"`
	Balance string `json:"balance"`
	ChainID uint64 `json:"chainId"`
	Network string `json:"network"`
	RPCURL  string `json:"rpcUrl"`
}

// HealthConfigResponse reports which health check settings are missing.
type HealthConfigResponse struct {
	Error  string `json:"error"`
	HasRPC bool   `json:"has_rpc"`
	HasKey bool   `json:"has_key"`
}

// ErrorResponse is the body of every other error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RecordsResponse lists a student's BlockWards.
type RecordsResponse struct {
	StudentID string                       `json:"studentId"`
	Records   []interfaces.BlockWardRecord `json:"records"`
}
