package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockward/blockward-backend/interfaces"
)

// exerciseDatastore runs the shared Datastore contract against s.
func exerciseDatastore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	require.NoError(t, s.PutStudent(ctx, &interfaces.StudentProfile{
		ID: "student-1", WalletAddress: "0x1111111111111111111111111111111111111111", FirstName: "Ada", LastName: "Lovelace",
	}))
	require.NoError(t, s.PutIssuer(ctx, &interfaces.IssuerProfile{
		ID: "issuer-1", FullName: "Grace Hopper", SchoolName: "Navy High",
	}))

	student, err := s.StudentProfile(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", student.FullName())

	issuer, err := s.IssuerProfile(ctx, "issuer-1")
	require.NoError(t, err)
	assert.Equal(t, "Navy High", issuer.SchoolName)

	_, err = s.StudentProfile(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	_, err = s.IssuerProfile(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	older := &interfaces.BlockWardRecord{
		StudentID: "student-1", Category: "academic", Title: "First", TxHash: "0x01",
		TokenID: "0", BlockNumber: 10, IssuedAt: base,
	}
	newer := &interfaces.BlockWardRecord{
		StudentID: "student-1", Category: "sports", Title: "Second", TxHash: "0x02",
		TokenID: "1", BlockNumber: 12, IssuedAt: base.Add(time.Hour),
	}
	failed := &interfaces.BlockWardRecord{
		StudentID: "student-2", Category: "arts", Title: "Reverted", TxHash: "0x03",
		BlockNumber: 11, IssuedAt: base, Status: interfaces.RecordFailed, FailureReason: "transaction reverted",
	}
	for _, r := range []*interfaces.BlockWardRecord{older, newer, failed} {
		require.NoError(t, s.CreateRecord(ctx, r))
		assert.NotEmpty(t, r.ID)
	}
	assert.Equal(t, interfaces.RecordActive, older.Status)

	dup := *older
	dup.ID = ""
	assert.ErrorIs(t, s.CreateRecord(ctx, &dup), interfaces.ErrDuplicateRecord)

	got, err := s.Record(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
	assert.Equal(t, uint64(12), got.BlockNumber)
	assert.True(t, got.IssuedAt.Equal(newer.IssuedAt))

	_, err = s.Record(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	list, err := s.RecordsForStudent(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, "First", list[1].Title)

	empty, err := s.RecordsForStudent(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)

	inRange, err := s.RecordsInBlockRange(ctx, 10, 11)
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, "0x01", inRange[0].TxHash)
	assert.Equal(t, interfaces.RecordFailed, inRange[1].Status)
	assert.Equal(t, "transaction reverted", inRange[1].FailureReason)
}

func TestMemoryStore(t *testing.T) {
	exerciseDatastore(t, NewMemoryStore())
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), "memory://", slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Name())

	_, err = Open(context.Background(), "mysql://localhost/db", slog.Default())
	assert.ErrorIs(t, err, interfaces.ErrInvalidDatastoreURI)

	_, err = Open(context.Background(), "://bad", slog.Default())
	assert.ErrorIs(t, err, interfaces.ErrInvalidDatastoreURI)
}
