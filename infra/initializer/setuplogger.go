package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/walletledger/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	infoColor  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor  = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugColor = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
)

var formatters = map[string]log.Formatter{
	"json":   log.JSONFormatter,
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
}

func setupLogger(cfg *config.Log) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

// newLogger builds the charmbracelet handler behind slog and installs it as
// the default logger.
func newLogger(cfg *config.Log, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text"}
	}
	formatter := log.TextFormatter
	if f, ok := formatters[cfg.Format]; ok {
		formatter = f
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(ledgerStyles())

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func ledgerStyles() *log.Styles {
	styles := log.DefaultStyles()

	levels := []struct {
		level log.Level
		icon  string
		color lipgloss.AdaptiveColor
	}{
		{log.ErrorLevel, "❌", errorColor},
		{log.WarnLevel, "⚠️", warnColor},
		{log.InfoLevel, "ℹ️", infoColor},
		{log.DebugLevel, "🐛", debugColor},
	}
	for _, l := range levels {
		styles.Levels[l.level] = lipgloss.NewStyle().
			SetString(l.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(l.color)
	}

	keys := map[string]lipgloss.AdaptiveColor{
		"error":          errorColor,
		"finalizeError":  errorColor,
		"reason":         warnColor,
		"transactionID":  infoColor,
		"transaction_id": infoColor,
		"walletID":       infoColor,
		"wallet_id":      infoColor,
		"prefix":         debugColor,
		"caller":         debugColor,
		"time":           debugColor,
	}
	for key, color := range keys {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(color)
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	return styles
}
