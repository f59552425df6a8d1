package model

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ EventMetricsModel = (*defaultEventMetricsModel)(nil)

// EventMetricRow mirrors public.event_metrics. Sentinel NaN statistics map
// to SQL NULL so aggregates in the database skip them the same way the
// in-memory pipeline does.
type EventMetricRow struct {
	RunID          string
	Symbol         string
	EventType      string
	EventDate      time.Time
	EffectiveDate  time.Time
	PreVol         sql.NullFloat64
	PostVol        sql.NullFloat64
	VolDelta       sql.NullFloat64
	PreMean        sql.NullFloat64
	PostMean       sql.NullFloat64
	RetDelta       sql.NullFloat64
	EventDayReturn float64
	ImpactRatio    sql.NullFloat64
	PreN           int
	PostN          int
}

// EventMetricsModel stores per-(event, asset) metric rows keyed by run.
type EventMetricsModel interface {
	Insert(ctx context.Context, row *EventMetricRow) error
	DeleteRun(ctx context.Context, runID string) error
	CountRun(ctx context.Context, runID string) (int64, error)
}

type defaultEventMetricsModel struct {
	conn sqlx.SqlConn
}

// NewEventMetricsModel returns a model for the event_metrics table.
func NewEventMetricsModel(conn sqlx.SqlConn) EventMetricsModel {
	return &defaultEventMetricsModel{conn: conn}
}

func (m *defaultEventMetricsModel) Insert(ctx context.Context, row *EventMetricRow) error {
	const stmt = `
INSERT INTO public.event_metrics (
    run_id, symbol, event_type, event_date, effective_date,
    pre_vol, post_vol, vol_delta, pre_mean, post_mean, ret_delta,
    event_day_return, impact_ratio, pre_n, post_n, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW()
)`
	if _, err := m.conn.ExecCtx(ctx, stmt,
		row.RunID, row.Symbol, row.EventType, row.EventDate, row.EffectiveDate,
		row.PreVol, row.PostVol, row.VolDelta, row.PreMean, row.PostMean, row.RetDelta,
		row.EventDayReturn, row.ImpactRatio, row.PreN, row.PostN,
	); err != nil {
		return fmt.Errorf("event_metrics.Insert: %w", err)
	}
	return nil
}

func (m *defaultEventMetricsModel) DeleteRun(ctx context.Context, runID string) error {
	if _, err := m.conn.ExecCtx(ctx,
		`DELETE FROM public.event_metrics WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("event_metrics.DeleteRun: %w", err)
	}
	return nil
}

func (m *defaultEventMetricsModel) CountRun(ctx context.Context, runID string) (int64, error) {
	var count int64
	if err := m.conn.QueryRowCtx(ctx, &count,
		`SELECT COUNT(*) FROM public.event_metrics WHERE run_id = $1`, runID); err != nil {
		return 0, fmt.Errorf("event_metrics.CountRun: %w", err)
	}
	return count, nil
}

// NullFloat converts a possibly-NaN statistic into its SQL representation.
func NullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
