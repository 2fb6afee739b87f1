package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a profile or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRecord is returned when a record with the same id or transaction hash already exists.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrInvalidDatastoreURI is returned when a datastore URI is malformed or uses an unsupported scheme.
	ErrInvalidDatastoreURI = errors.New("invalid datastore URI")
)

// Datastore persists profiles and BlockWard records.
type Datastore interface {
	// StudentProfile returns the student with the given id or ErrNotFound.
	StudentProfile(ctx context.Context, id string) (*StudentProfile, error)

	// IssuerProfile returns the issuer with the given id or ErrNotFound.
	IssuerProfile(ctx context.Context, id string) (*IssuerProfile, error)

	// CreateRecord appends a record. Records are never updated afterwards.
	CreateRecord(ctx context.Context, record *BlockWardRecord) error

	// Record returns a record by id or ErrNotFound.
	Record(ctx context.Context, id string) (*BlockWardRecord, error)

	// RecordsForStudent returns a student's records, newest first.
	RecordsForStudent(ctx context.Context, studentID string) ([]BlockWardRecord, error)

	// RecordsInBlockRange returns records mined in [fromBlock, toBlock].
	RecordsInBlockRange(ctx context.Context, fromBlock, toBlock uint64) ([]BlockWardRecord, error)

	// Ping checks the datastore is reachable.
	Ping(ctx context.Context) error

	// Name returns identifier for logging.
	Name() string
}

// ErrRequestInFlight is returned by IdempotencyGuard.Begin when the key is held by a running request.
var ErrRequestInFlight = errors.New("request with this idempotency key is in flight")
