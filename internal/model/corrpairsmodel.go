package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ CorrPairsModel = (*defaultCorrPairsModel)(nil)

// CorrPairRow mirrors public.corr_pairs.
type CorrPairRow struct {
	RunID     string
	EventType string
	EventDate time.Time
	AssetA    string
	AssetB    string
	PreCorr   sql.NullFloat64
	PostCorr  sql.NullFloat64
	CorrDelta sql.NullFloat64
	PreN      int
	PostN     int
}

// CorrPairsModel stores per-(event, asset pair) correlation rows keyed by run.
type CorrPairsModel interface {
	Insert(ctx context.Context, row *CorrPairRow) error
	DeleteRun(ctx context.Context, runID string) error
}

type defaultCorrPairsModel struct {
	conn sqlx.SqlConn
}

// NewCorrPairsModel returns a model for the corr_pairs table.
func NewCorrPairsModel(conn sqlx.SqlConn) CorrPairsModel {
	return &defaultCorrPairsModel{conn: conn}
}

func (m *defaultCorrPairsModel) Insert(ctx context.Context, row *CorrPairRow) error {
	const stmt = `
INSERT INTO public.corr_pairs (
    run_id, event_type, event_date, asset_a, asset_b,
    pre_corr, post_corr, corr_delta, pre_n, post_n, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()
)`
	if _, err := m.conn.ExecCtx(ctx, stmt,
		row.RunID, row.EventType, row.EventDate, row.AssetA, row.AssetB,
		row.PreCorr, row.PostCorr, row.CorrDelta, row.PreN, row.PostN,
	); err != nil {
		return fmt.Errorf("corr_pairs.Insert: %w", err)
	}
	return nil
}

func (m *defaultCorrPairsModel) DeleteRun(ctx context.Context, runID string) error {
	if _, err := m.conn.ExecCtx(ctx,
		`DELETE FROM public.corr_pairs WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("corr_pairs.DeleteRun: %w", err)
	}
	return nil
}
