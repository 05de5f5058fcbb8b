package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// ReportRepository serves the aggregate queries behind the statistics
// endpoint and the summary export. All aggregation happens in SQL; the
// service layer only assembles the bundle.
type ReportRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new report repository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// StatusCounts returns the persisted-status breakdown.
func (r *ReportRepository) StatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	const query = `SELECT status, count(*) FROM tickets GROUP BY status ORDER BY status`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// CategoryPerformance aggregates closed-ticket performance per category.
// Averages and comply rate cover closed tickets only; open tickets have no
// settled real TTR yet.
func (r *ReportRepository) CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error) {
	const query = `
	SELECT category,
	       count(*) AS total,
	       count(*) FILTER (WHERE status = 'CLOSED') AS closed,
	       coalesce(avg(ttr_real_hours) FILTER (WHERE status = 'CLOSED'), 0) AS avg_real,
	       CASE WHEN count(*) FILTER (WHERE status = 'CLOSED') = 0 THEN 0
	            ELSE count(*) FILTER (WHERE status = 'CLOSED' AND ttr_compliance = 'COMPLY')::float8
	                 / count(*) FILTER (WHERE status = 'CLOSED')
	       END AS comply_rate
	FROM tickets
	GROUP BY category
	ORDER BY category`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perf []domain.CategoryPerformance
	for rows.Next() {
		var cp domain.CategoryPerformance
		if err := rows.Scan(&cp.Category, &cp.Total, &cp.Closed, &cp.AvgRealHours, &cp.ComplyRate); err != nil {
			return nil, err
		}
		perf = append(perf, cp)
	}
	return perf, rows.Err()
}

// DailyTraffic returns, for each of the last N days, how many tickets
// opened that day. Days without tickets are filled with zero.
func (r *ReportRepository) DailyTraffic(ctx context.Context, days int) ([]domain.TrafficPoint, error) {
	const query = `
	SELECT d::date, coalesce(t.cnt, 0)
	FROM generate_series(current_date - ($1::int - 1), current_date, '1 day') AS d
	LEFT JOIN (
		SELECT jam_open::date AS day, count(*) AS cnt
		FROM tickets
		WHERE jam_open >= current_date - ($1::int - 1)
		GROUP BY jam_open::date
	) t ON t.day = d::date
	ORDER BY d`

	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.TrafficPoint
	for rows.Next() {
		var tp domain.TrafficPoint
		if err := rows.Scan(&tp.Day, &tp.Count); err != nil {
			return nil, err
		}
		points = append(points, tp)
	}
	return points, rows.Err()
}

// TotalTickets returns the overall ticket count.
func (r *ReportRepository) TotalTickets(ctx context.Context) (int64, error) {
	db := GetDBTX(ctx, r.pool)
	var total int64
	err := db.QueryRow(ctx, `SELECT count(*) FROM tickets`).Scan(&total)
	return total, err
}
