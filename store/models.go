package store

import (
	"time"

	"github.com/blockward/blockward-backend/interfaces"
)

type studentRow struct {
	ID            string `gorm:"primaryKey"`
	WalletAddress string
	FirstName     string
	LastName      string
	Email         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (studentRow) TableName() string { return "student_profiles" }

func (r *studentRow) profile() *interfaces.StudentProfile {
	return &interfaces.StudentProfile{
		ID:            r.ID,
		WalletAddress: r.WalletAddress,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
	}
}

type issuerRow struct {
	ID         string `gorm:"primaryKey"`
	FullName   string
	Email      string
	SchoolName string
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (issuerRow) TableName() string { return "issuer_profiles" }

func (r *issuerRow) profile() *interfaces.IssuerProfile {
	return &interfaces.IssuerProfile{
		ID:         r.ID,
		FullName:   r.FullName,
		Email:      r.Email,
		SchoolName: r.SchoolName,
		Role:       r.Role,
	}
}

type recordRow struct {
	ID            string `gorm:"primaryKey"`
	StudentID     string `gorm:"index;not null"`
	StudentName   string
	StudentWallet string
	IssuerID      string `gorm:"index"`
	IssuerName    string
	SchoolName    string
	Category      string `gorm:"not null"`
	Title         string `gorm:"not null"`
	Description   string
	TokenID       string
	MetadataURI   string `gorm:"type:text"`
	TxHash        string `gorm:"uniqueIndex;not null"`
	BlockNumber   uint64 `gorm:"index"`
	Network       string
	IssuedAt      time.Time `gorm:"index"`
	Status        string    `gorm:"not null;default:active"`
	FailureReason string
}

func (recordRow) TableName() string { return "blockward_records" }

func toRecordRow(r *interfaces.BlockWardRecord) *recordRow {
	return &recordRow{
		ID:            r.ID,
		StudentID:     r.StudentID,
		StudentName:   r.StudentName,
		StudentWallet: r.StudentWallet,
		IssuerID:      r.IssuerID,
		IssuerName:    r.IssuerName,
		SchoolName:    r.SchoolName,
		Category:      r.Category,
		Title:         r.Title,
		Description:   r.Description,
		TokenID:       r.TokenID,
		MetadataURI:   r.MetadataURI,
		TxHash:        r.TxHash,
		BlockNumber:   r.BlockNumber,
		Network:       r.Network,
		IssuedAt:      r.IssuedAt,
		Status:        string(r.Status),
		FailureReason: r.FailureReason,
	}
}

func (r *recordRow) record() interfaces.BlockWardRecord {
	return interfaces.BlockWardRecord{
		ID:            r.ID,
		StudentID:     r.StudentID,
		StudentName:   r.StudentName,
		StudentWallet: r.StudentWallet,
		IssuerID:      r.IssuerID,
		IssuerName:    r.IssuerName,
		SchoolName:    r.SchoolName,
		Category:      r.Category,
		Title:         r.Title,
		Description:   r.Description,
		TokenID:       r.TokenID,
		MetadataURI:   r.MetadataURI,
		TxHash:        r.TxHash,
		BlockNumber:   r.BlockNumber,
		Network:       r.Network,
		IssuedAt:      r.IssuedAt.UTC(),
		Status:        interfaces.RecordStatus(r.Status),
		FailureReason: r.FailureReason,
	}
}
