// Package reconcile compares Minted events on chain with stored BlockWard records.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/blockward/blockward-backend/interfaces"
)

// DefaultChunkSize bounds the block range of a single log query.
const DefaultChunkSize uint64 = 5000

// TokenMismatch is an active record whose token id differs from the one its
// transaction minted.
type TokenMismatch struct {
	Record interfaces.BlockWardRecord `json:"record"`
	Event  interfaces.MintedEvent     `json:"event"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	FromBlock uint64 `json:"fromBlock"`
	ToBlock   uint64 `json:"toBlock"`
	Events    int    `json:"events"`
	Records   int    `json:"records"`

	// MissingRecords were minted but have no record at all.
	MissingRecords []interfaces.MintedEvent `json:"missingRecords"`

	// OrphanRecords are active but their transaction minted nothing in range.
	OrphanRecords []interfaces.BlockWardRecord `json:"orphanRecords"`

	// FailedButMinted were recorded as failed although the mint landed.
	FailedButMinted []TokenMismatch `json:"failedButMinted"`

	TokenMismatches []TokenMismatch `json:"tokenMismatches"`
}

// Clean reports whether chain and datastore agree.
func (r *Report) Clean() bool {
	return len(r.MissingRecords) == 0 &&
		len(r.OrphanRecords) == 0 &&
		len(r.FailedButMinted) == 0 &&
		len(r.TokenMismatches) == 0
}

// Reconciler is read only on both sides.
type Reconciler struct {
	token     interfaces.AwardToken
	store     interfaces.Datastore
	log       *slog.Logger
	chunkSize uint64
	parallel  int
}

func New(token interfaces.AwardToken, store interfaces.Datastore, log *slog.Logger) *Reconciler {
	return &Reconciler{
		token:     token,
		store:     store,
		log:       log,
		chunkSize: DefaultChunkSize,
		parallel:  4,
	}
}

// WithChunkSize sets the number of blocks per log query.
func (r *Reconciler) WithChunkSize(n uint64) *Reconciler {
	if n > 0 {
		r.chunkSize = n
	}
	return r
}

// Run reconciles blocks [fromBlock, toBlock].
func (r *Reconciler) Run(ctx context.Context, fromBlock, toBlock uint64) (*Report, error) {
	if toBlock < fromBlock {
		return nil, fmt.Errorf("invalid block range %d-%d", fromBlock, toBlock)
	}

	events, err := r.events(ctx, fromBlock, toBlock)
	if err != nil {
		return nil, err
	}

	records, err := r.store.RecordsInBlockRange(ctx, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	report := &Report{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Events:    len(events),
		Records:   len(records),
	}

	byTx := make(map[string]interfaces.MintedEvent, len(events))
	for _, ev := range events {
		byTx[ev.TxHash.Hex()] = ev
	}

	recorded := make(map[string]bool, len(records))
	for _, rec := range records {
		recorded[rec.TxHash] = true
		ev, minted := byTx[rec.TxHash]

		switch {
		case rec.Status == interfaces.RecordFailed:
			if minted {
				report.FailedButMinted = append(report.FailedButMinted, TokenMismatch{Record: rec, Event: ev})
			}
		case !minted:
			report.OrphanRecords = append(report.OrphanRecords, rec)
		case rec.TokenID != ev.TokenID.String():
			report.TokenMismatches = append(report.TokenMismatches, TokenMismatch{Record: rec, Event: ev})
		}
	}

	for _, ev := range events {
		if !recorded[ev.TxHash.Hex()] {
			report.MissingRecords = append(report.MissingRecords, ev)
		}
	}

	r.log.Info("Reconciliation finished",
		"fromBlock", fromBlock,
		"toBlock", toBlock,
		"events", report.Events,
		"records", report.Records,
		"missing", len(report.MissingRecords),
		"orphans", len(report.OrphanRecords),
		"failedButMinted", len(report.FailedButMinted),
		"mismatches", len(report.TokenMismatches))

	return report, nil
}

// events queries the range in chunks, a few at a time, and keeps block order.
func (r *Reconciler) events(ctx context.Context, fromBlock, toBlock uint64) ([]interfaces.MintedEvent, error) {
	var ranges [][2]uint64
	for start := fromBlock; start <= toBlock; start += r.chunkSize {
		end := start + r.chunkSize - 1
		if end > toBlock || end < start {
			end = toBlock
		}
		ranges = append(ranges, [2]uint64{start, end})
		if end == toBlock {
			break
		}
	}

	chunks := make([][]interfaces.MintedEvent, len(ranges))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, rng := range ranges {
		g.Go(func() error {
			evs, err := r.token.MintedEvents(ctx, rng[0], rng[1])
			if err != nil {
				return fmt.Errorf("blocks %d-%d: %w", rng[0], rng[1], err)
			}
			r.log.Debug("Fetched Minted events", "fromBlock", rng[0], "toBlock", rng[1], "count", len(evs))
			chunks[i] = evs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var events []interfaces.MintedEvent
	for _, c := range chunks {
		events = append(events, c...)
	}
	return events, nil
}
