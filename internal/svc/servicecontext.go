package svc

import (
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"macrostudy/internal/cache"
	"macrostudy/internal/config"
	studypersist "macrostudy/internal/persistence/study"
	calendarpkg "macrostudy/pkg/calendar"
	_ "macrostudy/pkg/calendar/fred" // register fred calendar provider
	"macrostudy/pkg/eventstudy"
	marketpkg "macrostudy/pkg/marketdata"
	_ "macrostudy/pkg/marketdata/stooq" // register stooq market provider
)

// ServiceContext wires configuration into the collaborators a study run
// needs: a cached market-data provider, a cached calendar provider, and
// optional Postgres persistence.
type ServiceContext struct {
	Config config.Config

	Market      marketpkg.Provider
	Calendar    calendarpkg.Provider
	StudyConfig eventstudy.Config
	Persistence eventstudy.Persistence
	DBConn      sqlx.SqlConn
}

// NewServiceContext builds the service context, failing fast on any
// misconfigured collaborator.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	svc := &ServiceContext{Config: c}
	ttl := cache.NewTTLSet(c.TTL)

	studyCfg, err := c.StudyConfig()
	if err != nil {
		return nil, err
	}
	svc.StudyConfig = studyCfg

	marketCfg := c.Market.Value
	if marketCfg == nil {
		return nil, fmt.Errorf("svc: market config section is required")
	}
	marketProviders, err := marketCfg.BuildProviders()
	if err != nil {
		return nil, fmt.Errorf("svc: build market providers: %w", err)
	}
	market, err := marketCfg.DefaultProvider(marketProviders)
	if err != nil {
		return nil, err
	}
	svc.Market = marketpkg.NewCachedProvider(market, c.DataPath, ttl.Prices)

	calendarCfg := c.Calendar.Value
	if calendarCfg == nil {
		return nil, fmt.Errorf("svc: calendar config section is required")
	}
	calendarProviders, err := calendarCfg.BuildProviders()
	if err != nil {
		return nil, fmt.Errorf("svc: build calendar providers: %w", err)
	}
	cal, err := calendarCfg.DefaultProvider(calendarProviders)
	if err != nil {
		return nil, err
	}
	svc.Calendar = calendarpkg.NewCachedProvider(cal, c.DataPath, ttl.Events)

	if strings.TrimSpace(c.Postgres.DSN) != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn
		svc.Persistence = studypersist.NewService(studypersist.Config{SQLConn: conn})
	}

	return svc, nil
}
