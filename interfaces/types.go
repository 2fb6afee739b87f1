package interfaces

import (
	"strings"
	"time"
)

// RecordStatus is the lifecycle state of a BlockWardRecord.
type RecordStatus string

const (
	// RecordActive marks a record whose mint transaction was confirmed.
	RecordActive RecordStatus = "active"

	// RecordFailed marks a broadcast mint that reverted or could not be confirmed.
	// It is kept for audit only and carries no token id.
	RecordFailed RecordStatus = "failed"
)

// StudentProfile is the recipient of a BlockWard.
type StudentProfile struct {
	ID            string `json:"id"`
	WalletAddress string `json:"wallet_address"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email,omitempty"`
}

// FullName joins first and last name.
func (s *StudentProfile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// IssuerProfile is the teacher (or school admin) issuing an award.
type IssuerProfile struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email,omitempty"`
	SchoolName string `json:"school_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

// BlockWardRecord is the persisted result of a mint.
type BlockWardRecord struct {
	ID            string       `json:"id"`
	StudentID     string       `json:"student_id"`
	StudentName   string       `json:"student_name"`
	StudentWallet string       `json:"student_wallet"`
	IssuerID      string       `json:"issuer_id"`
	IssuerName    string       `json:"issuer_name"`
	SchoolName    string       `json:"school_name,omitempty"`
	Category      string       `json:"category"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	TokenID       string       `json:"token_id,omitempty"`
	MetadataURI   string       `json:"metadata_uri"`
	TxHash        string       `json:"tx_hash"`
	BlockNumber   uint64       `json:"block_number"`
	Network       string       `json:"network"`
	IssuedAt      time.Time    `json:"issued_at"`
	Status        RecordStatus `json:"status"`
	FailureReason string       `json:"failure_reason,omitempty"`
}
