package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/internal/summaries"
	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	pkgerrors "github.com/rakaputra/warungpos-backend/pkg/errors"
)

// snapshotLister is the slice of the snapshot repository the read side needs.
type snapshotLister interface {
	ListByDate(ctx context.Context, dayStart, dayEnd time.Time) ([]models.OrderSnapshot, error)
}

// summaryReader is the slice of the summary repository the read side needs.
type summaryReader interface {
	FindByDate(ctx context.Context, date time.Time) (*models.DailySummary, error)
	FindRange(ctx context.Context, from, to time.Time) ([]models.DailySummary, error)
}

// Service is the reporting read side over the derived tables. It never writes;
// the snapshot and summary maintainers own those rows.
type Service interface {
	SummaryForDate(ctx context.Context, date time.Time) (*models.DailySummary, error)
	SummaryRange(ctx context.Context, from, to time.Time) ([]models.DailySummary, error)
	SnapshotsForDate(ctx context.Context, date time.Time) ([]models.OrderSnapshot, error)
	ExportSummariesCSV(ctx context.Context, from, to time.Time) ([]byte, error)
	ExportSummariesXLSX(ctx context.Context, from, to time.Time) ([]byte, error)
}

type service struct {
	summaries summaryReader
	snapshots snapshotLister
}

// NewService builds the reporting service.
func NewService(summaryRepo summaryReader, snapshotRepo snapshotLister) (Service, error) {
	if summaryRepo == nil {
		return nil, fmt.Errorf("summary repository required")
	}
	if snapshotRepo == nil {
		return nil, fmt.Errorf("snapshot repository required")
	}
	return &service{summaries: summaryRepo, snapshots: snapshotRepo}, nil
}

func (s *service) SummaryForDate(ctx context.Context, date time.Time) (*models.DailySummary, error) {
	summary, err := s.summaries.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no summary for date")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load summary")
	}
	return summary, nil
}

func (s *service) SummaryRange(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.summaries.FindRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load summary range")
	}
	return rows, nil
}

func (s *service) SnapshotsForDate(ctx context.Context, date time.Time) ([]models.OrderSnapshot, error) {
	start, end := summaries.DayBounds(date)
	rows, err := s.snapshots.ListByDate(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list snapshots")
	}
	return rows, nil
}

const maxExportRangeDays = 366

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "date range required")
	}
	if to.Before(from) {
		return pkgerrors.New(pkgerrors.CodeValidation, "range end before start")
	}
	if to.Sub(from) > maxExportRangeDays*24*time.Hour {
		return pkgerrors.New(pkgerrors.CodeValidation, "range too wide")
	}
	return nil
}
