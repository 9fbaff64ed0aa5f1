// Package ledger mutates a user's tax-record history.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/scoped"
	"github.com/dominh-hy/TaxViet/internal/tax"
)

type Ledger struct {
	scoped *scoped.Store

	// Injectable for tests.
	now   func() time.Time
	newID func() string
}

func New(store *scoped.Store) *Ledger {
	return &Ledger{
		scoped: store,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// AppendFromResult turns a computed result into a pending record at the
// head of the identifier's history and persists it.
func (l *Ledger) AppendFromResult(ctx context.Context, identifier string, result tax.Result) (core.TaxRecord, error) {
	record := core.TaxRecord{
		ID:        l.newID(),
		Label:     recordLabel(result.Input.Period, l.now()),
		Revenue:   result.Input.Revenue,
		TaxAmount: result.Total,
		Status:    core.StatusPending,
	}

	records, err := l.scoped.Records(ctx, identifier)
	if err != nil {
		return core.TaxRecord{}, err
	}

	// Newest first.
	records = append([]core.TaxRecord{record}, records...)
	if err := l.scoped.SetRecords(ctx, identifier, records); err != nil {
		return core.TaxRecord{}, err
	}

	slog.InfoContext(ctx, "Record saved",
		"record_id", record.ID,
		"label", record.Label,
		"tax_amount", record.TaxAmount.String())
	return record, nil
}

// Remove deletes a record by id. A missing id is a no-op, matching the
// tolerant delete behavior of the history screen.
func (l *Ledger) Remove(ctx context.Context, identifier, recordID string) error {
	records, err := l.scoped.Records(ctx, identifier)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != recordID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		slog.DebugContext(ctx, "Remove of absent record ignored", "record_id", recordID)
		return nil
	}
	return l.scoped.SetRecords(ctx, identifier, kept)
}

// ToggleStatus flips a record between paid and pending. A missing id is
// a no-op.
func (l *Ledger) ToggleStatus(ctx context.Context, identifier, recordID string) error {
	records, err := l.scoped.Records(ctx, identifier)
	if err != nil {
		return err
	}

	for i, r := range records {
		if r.ID == recordID {
			records[i].Status = r.Status.Toggle()
			return l.scoped.SetRecords(ctx, identifier, records)
		}
	}
	slog.DebugContext(ctx, "Toggle of absent record ignored", "record_id", recordID)
	return nil
}

func recordLabel(period tax.Period, at time.Time) string {
	periodLabel := fmt.Sprintf("Năm %d", at.Year())
	if period == tax.PeriodQuarter {
		periodLabel = fmt.Sprintf("Quý %d", at.Year())
	}
	return fmt.Sprintf("Dự toán %s (%d/%d/%d)", periodLabel, at.Day(), int(at.Month()), at.Year())
}
