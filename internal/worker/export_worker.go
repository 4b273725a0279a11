// Package worker exports transaction changes to monthly CSV files.
package worker

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/amqp"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/core"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
)

var csvHeader = []string{"event", "transaction_id", "user_id", "counterparty", "category", "amount_cents", "date", "recurring"}

// ExportWorker appends transaction change events to per-month CSV files.
// Created transactions are written with their full details fetched from
// storage; deletions are recorded as tombstone rows.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	exportDir string

	mu sync.Mutex
}

func NewExportWorker(storage *storage.SQLiteRepository, exportDir string) (*ExportWorker, error) {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &ExportWorker{
		storage:   storage,
		exportDir: exportDir,
	}, nil
}

// HandleEvent processes a single transaction event from AMQP
func (w *ExportWorker) HandleEvent(ctx context.Context, evt *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"transaction_id", evt.TransactionID,
		"action", evt.Action)

	switch evt.Action {
	case amqp.ActionCreated:
		return w.exportCreated(ctx, evt)
	case amqp.ActionDeleted:
		return w.exportDeleted(ctx, evt)
	default:
		// Unknown actions are dropped so they are not requeued forever
		slog.WarnContext(ctx, "Unknown event action, skipping",
			"transaction_id", evt.TransactionID,
			"action", evt.Action)
		return nil
	}
}

func (w *ExportWorker) exportCreated(ctx context.Context, evt *amqp.TransactionEvent) error {
	tx, err := w.storage.Transaction(ctx, evt.TransactionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted before the event was consumed
			slog.WarnContext(ctx, "Transaction no longer exists, skipping export",
				"transaction_id", evt.TransactionID)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	row := []string{
		amqp.ActionCreated,
		tx.ID,
		evt.UserID,
		tx.Counterparty,
		tx.Category,
		strconv.FormatInt(tx.Amount.Cents, 10),
		tx.Date.Format("2006-01-02"),
		strconv.FormatBool(tx.IsRecurring),
	}
	return w.appendRow(ctx, tx.Date.Format("2006-01"), row)
}

func (w *ExportWorker) exportDeleted(ctx context.Context, evt *amqp.TransactionEvent) error {
	row := []string{
		amqp.ActionDeleted,
		evt.TransactionID,
		evt.UserID,
		"", "", "",
		evt.Timestamp.Format("2006-01-02"),
		"",
	}
	return w.appendRow(ctx, evt.Timestamp.Format("2006-01"), row)
}

// appendRow writes a row to the month's CSV file, creating it with a
// header row on first write.
func (w *ExportWorker) appendRow(ctx context.Context, month string, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.exportDir, fmt.Sprintf("transactions-%s.csv", month))

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if isNew {
		if err := writer.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}

	slog.InfoContext(ctx, "Appended export row", "file", path, "event", row[0])
	return nil
}

// ExportSummary writes a one-off bill summary snapshot, used by the
// worker's periodic reporting.
func (w *ExportWorker) ExportSummary(ctx context.Context, userID string, summary core.BillSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.exportDir, fmt.Sprintf("bill-summary-%s.csv", userID))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	rows := [][]string{
		{"bucket", "total_cents", "count"},
		{"all", strconv.FormatInt(summary.All.Total.Cents, 10), strconv.Itoa(summary.All.Count)},
		{"paid", strconv.FormatInt(summary.Paid.Total.Cents, 10), strconv.Itoa(summary.Paid.Count)},
		{"soon", strconv.FormatInt(summary.Soon.Total.Cents, 10), strconv.Itoa(summary.Soon.Count)},
		{"upcoming", strconv.FormatInt(summary.Upcoming.Total.Cents, 10), strconv.Itoa(summary.Upcoming.Count)},
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
