package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// Export kinds
const (
	ExportAssignments = "assignments"
	ExportDebits      = "debits"
	ExportCredits     = "credits"
)

// ExportKinds lists the record kinds Export accepts
var ExportKinds = []string{ExportAssignments, ExportDebits, ExportCredits}

// ExportStore defines the database operations needed for exports
type ExportStore interface {
	GetAssignments(ctx context.Context) ([]db.Assignment, error)
	GetDebits(ctx context.Context) ([]db.Debit, error)
	GetCredits(ctx context.Context) ([]db.Credit, error)
}

// Export writes every record of kind to w as a YAML list
func Export(ctx context.Context, store ExportStore, kind string, w io.Writer, logger *zap.Logger) error {
	var (
		records any
		count   int
		err     error
	)

	switch kind {
	case ExportAssignments:
		var assignments []db.Assignment
		assignments, err = store.GetAssignments(ctx)
		records, count = assignments, len(assignments)
	case ExportDebits:
		var debits []db.Debit
		debits, err = store.GetDebits(ctx)
		records, count = debits, len(debits)
	case ExportCredits:
		var credits []db.Credit
		credits, err = store.GetCredits(ctx)
		records, count = credits, len(credits)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownExportKind, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}

	logger.Debug("Exporting records", zap.String("kind", kind), zap.Int("count", count))

	if count == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	return enc.Close()
}
