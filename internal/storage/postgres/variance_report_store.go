package postgres

import (
	"context"
	"fmt"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/observability"
	"venture-fund-lab/internal/storage"
)

// VarianceReportStore implements storage.VarianceReportStore using PostgreSQL.
type VarianceReportStore struct {
	pool *Pool
}

// NewVarianceReportStore creates a new VarianceReportStore.
func NewVarianceReportStore(pool *Pool) *VarianceReportStore {
	return &VarianceReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VarianceReportStore = (*VarianceReportStore)(nil)

// Insert adds a report. Returns ErrDuplicateKey if (fund_id, period_end) exists.
func (s *VarianceReportStore) Insert(ctx context.Context, r *domain.VarianceReport) (err error) {
	done := observability.StartDBQuery("postgres", "variance_insert")
	defer func() { done(err) }()

	if r == nil || r.FundID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO variance_reports (
			fund_id, period_end, irr_var, multiple_var, dpi_share
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.pool.Exec(ctx, query,
		r.FundID, r.PeriodEnd, r.IRRVar, r.MultipleVar, r.DPIShare,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert variance report: %w", err)
	}
	return nil
}

// LatestReports returns up to n most recent reports for a fund, newest first.
func (s *VarianceReportStore) LatestReports(ctx context.Context, fundID string, n int) (reports []*domain.VarianceReport, err error) {
	done := observability.StartDBQuery("postgres", "variance_latest")
	defer func() { done(err) }()

	query := `
		SELECT fund_id, period_end, irr_var, multiple_var, dpi_share
		FROM variance_reports
		WHERE fund_id = $1
		ORDER BY period_end DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, fundID, n)
	if err != nil {
		return nil, fmt.Errorf("get variance reports by fund id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.VarianceReport
		if err := rows.Scan(&r.FundID, &r.PeriodEnd, &r.IRRVar, &r.MultipleVar, &r.DPIShare); err != nil {
			return nil, fmt.Errorf("scan variance report row: %w", err)
		}
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variance report rows: %w", err)
	}
	return reports, nil
}
