// Package interchange moves ledger data across formats: JSON
// export/import, XLSX workbooks and Google Sheets. It talks to the
// ledger only through the backend contract and owns no validation of
// its own.
package interchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// transactionJSON is the wire shape of one transaction: the five fixed
// fields, with the amount as a JSON number.
type transactionJSON struct {
	ID          int64       `json:"id"`
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
}

// ExportJSON writes the full dataset to path as an array of objects,
// preserving ledger order.
func ExportJSON(ctx context.Context, l backend.Ledger, path string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentInterchange)
	}
	ts, err := l.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}

	items := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		items = append(items, transactionJSON{
			ID:          t.ID,
			Date:        t.Date.String(),
			Amount:      json.Number(t.Amount.String()),
			Category:    string(t.Category),
			Description: t.Description,
		})
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export json: %w", err)
	}

	logger.Info("exported json",
		log.FieldOperation, log.OpExport,
		log.FieldPath, path,
		log.FieldCount, len(items))
	return nil
}

// ImportJSON reads transaction-shaped objects from path and adds each
// through the ledger. Any id carried by an object is ignored; fresh ids
// are always allocated. Records failing validation are skipped; any
// other failure from the ledger aborts the import. The count of
// successfully imported rows is returned either way.
func ImportJSON(ctx context.Context, l backend.Ledger, path string, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentInterchange)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("import json: %w", err)
	}

	var items []transactionJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("import json: %w", err)
	}

	count := 0
	for i, it := range items {
		_, err := l.Add(ctx, it.Date, it.Amount.String(), it.Category, it.Description)
		switch {
		case err == nil:
			count++
		case isValidationError(err):
			// Only invalid records are tolerated. Storage failures
			// must surface: partial imports that look complete lose
			// data silently.
			logger.Warn("skipping invalid record",
				log.FieldOperation, log.OpImport,
				log.FieldRows, i,
				log.FieldError, err.Error())
		default:
			return count, fmt.Errorf("import json: record %d: %w", i, err)
		}
	}

	logger.Info("imported json",
		log.FieldOperation, log.OpImport,
		log.FieldPath, path,
		log.FieldCount, count)
	return count, nil
}

// isValidationError reports whether err came from field validation
// rather than from persistence.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidCategory)
}
