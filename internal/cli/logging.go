package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"macrostudy/internal/config"
	"macrostudy/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	return []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Data path: %s", cfg.DataPath),
		fmt.Sprintf("Output dir: %s", cfg.OutDir),
		fmt.Sprintf("Alpha: %.3g", cfg.Alpha),
		fmt.Sprintf("Postgres: %s", presence(strings.TrimSpace(cfg.Postgres.DSN) != "")),
		fmt.Sprintf("Input TTL (prices/events): %ds / %ds", cfg.TTL.Prices, cfg.TTL.Events),
		sectionLine("Study config", cfg.Study),
		sectionLine("Market config", cfg.Market),
		sectionLine("Calendar config", cfg.Calendar),
	}
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: defaults", name)
	}
}
