package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blockward/blockward-backend/interfaces"
)

// GormStore implements interfaces.Datastore on PostgreSQL through gorm.
type GormStore struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewPostgresStore connects to dsn and migrates the schema.
func NewPostgresStore(ctx context.Context, dsn string, log *slog.Logger) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database handle: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	s := &GormStore{db: db, log: log}
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	for _, model := range []any{&studentRow{}, &issuerRow{}, &recordRow{}} {
		if err := s.db.WithContext(ctx).AutoMigrate(model); err != nil {
			return fmt.Errorf("migrating %T: %w", model, err)
		}
	}
	return nil
}

// PutStudent inserts or replaces a student profile.
func (s *GormStore) PutStudent(ctx context.Context, p *interfaces.StudentProfile) error {
	row := studentRow{ID: p.ID, WalletAddress: p.WalletAddress, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email}
	return s.db.WithContext(ctx).Save(&row).Error
}

// PutIssuer inserts or replaces an issuer profile.
func (s *GormStore) PutIssuer(ctx context.Context, p *interfaces.IssuerProfile) error {
	row := issuerRow{ID: p.ID, FullName: p.FullName, Email: p.Email, SchoolName: p.SchoolName, Role: p.Role}
	return s.db.WithContext(ctx).Save(&row).Error
}

func (s *GormStore) StudentProfile(ctx context.Context, id string) (*interfaces.StudentProfile, error) {
	var row studentRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.profile(), nil
}

func (s *GormStore) IssuerProfile(ctx context.Context, id string) (*interfaces.IssuerProfile, error) {
	var row issuerRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.profile(), nil
}

func (s *GormStore) CreateRecord(ctx context.Context, record *interfaces.BlockWardRecord) error {
	prepareRecord(record)
	if err := s.db.WithContext(ctx).Create(toRecordRow(record)).Error; err != nil {
		return translate(err)
	}

	s.log.Debug("Stored BlockWard record",
		slog.String("id", record.ID),
		slog.String("txHash", record.TxHash),
		slog.String("status", string(record.Status)))
	return nil
}

func (s *GormStore) Record(ctx context.Context, id string) (*interfaces.BlockWardRecord, error) {
	var row recordRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	record := row.record()
	return &record, nil
}

func (s *GormStore) RecordsForStudent(ctx context.Context, studentID string) ([]interfaces.BlockWardRecord, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return records(rows), nil
}

func (s *GormStore) RecordsInBlockRange(ctx context.Context, fromBlock, toBlock uint64) ([]interfaces.BlockWardRecord, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("block_number BETWEEN ? AND ?", fromBlock, toBlock).
		Order("block_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return records(rows), nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Name() string {
	return "postgres"
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return interfaces.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", interfaces.ErrDuplicateRecord, err)
	default:
		return err
	}
}

func prepareRecord(record *interfaces.BlockWardRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.IssuedAt.IsZero() {
		record.IssuedAt = time.Now()
	}
	record.IssuedAt = record.IssuedAt.UTC()
	if record.Status == "" {
		record.Status = interfaces.RecordActive
	}
}

func records(rows []recordRow) []interfaces.BlockWardRecord {
	out := make([]interfaces.BlockWardRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out
}
