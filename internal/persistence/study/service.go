package studypersist

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"macrostudy/internal/model"
	"macrostudy/pkg/eventstudy"
)

// Service persists study outputs to Postgres. It implements
// eventstudy.Persistence; a nil Service disables storage.
type Service struct {
	conn    sqlx.SqlConn
	metrics model.EventMetricsModel
	pairs   model.CorrPairsModel
}

// Config enumerates dependencies required to persist study results.
type Config struct {
	SQLConn      sqlx.SqlConn
	MetricsModel model.EventMetricsModel
	PairsModel   model.CorrPairsModel
}

// NewService wires a study persistence service. Returns nil when the
// database connection is missing so callers can treat storage as optional.
func NewService(cfg Config) eventstudy.Persistence {
	if cfg.SQLConn == nil {
		return nil
	}
	s := &Service{conn: cfg.SQLConn, metrics: cfg.MetricsModel, pairs: cfg.PairsModel}
	if s.metrics == nil {
		s.metrics = model.NewEventMetricsModel(cfg.SQLConn)
	}
	if s.pairs == nil {
		s.pairs = model.NewCorrPairsModel(cfg.SQLConn)
	}
	return s
}

// SaveMetrics replaces the metric rows for runID.
func (s *Service) SaveMetrics(ctx context.Context, runID string, metrics []eventstudy.Metric) error {
	if err := s.metrics.DeleteRun(ctx, runID); err != nil {
		return fmt.Errorf("studypersist: clear metrics run %s: %w", runID, err)
	}
	for i := range metrics {
		m := &metrics[i]
		row := &model.EventMetricRow{
			RunID:          runID,
			Symbol:         m.Symbol,
			EventType:      m.EventType,
			EventDate:      m.EventDate,
			EffectiveDate:  m.EffectiveDate,
			PreVol:         model.NullFloat(m.PreVol),
			PostVol:        model.NullFloat(m.PostVol),
			VolDelta:       model.NullFloat(m.VolDelta),
			PreMean:        model.NullFloat(m.PreMean),
			PostMean:       model.NullFloat(m.PostMean),
			RetDelta:       model.NullFloat(m.RetDelta),
			EventDayReturn: m.EventDayReturn,
			ImpactRatio:    model.NullFloat(m.ImpactRatio),
			PreN:           m.PreN,
			PostN:          m.PostN,
		}
		if err := s.metrics.Insert(ctx, row); err != nil {
			return fmt.Errorf("studypersist: insert metric %s/%s: %w", m.Symbol, m.EventType, err)
		}
	}
	logx.WithContext(ctx).Infof("studypersist: stored %d metric rows run=%s", len(metrics), runID)
	return nil
}

// SaveCorrelations replaces the correlation rows for runID.
func (s *Service) SaveCorrelations(ctx context.Context, runID string, pairs []eventstudy.CorrPair) error {
	if err := s.pairs.DeleteRun(ctx, runID); err != nil {
		return fmt.Errorf("studypersist: clear corr pairs run %s: %w", runID, err)
	}
	for i := range pairs {
		p := &pairs[i]
		row := &model.CorrPairRow{
			RunID:     runID,
			EventType: p.EventType,
			EventDate: p.EventDate,
			AssetA:    p.AssetA,
			AssetB:    p.AssetB,
			PreCorr:   model.NullFloat(p.PreCorr),
			PostCorr:  model.NullFloat(p.PostCorr),
			CorrDelta: model.NullFloat(p.CorrDelta),
			PreN:      p.PreN,
			PostN:     p.PostN,
		}
		if err := s.pairs.Insert(ctx, row); err != nil {
			return fmt.Errorf("studypersist: insert corr pair %s/%s: %w", p.AssetA, p.AssetB, err)
		}
	}
	logx.WithContext(ctx).Infof("studypersist: stored %d correlation rows run=%s", len(pairs), runID)
	return nil
}
