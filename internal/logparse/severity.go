package logparse

import (
	"regexp"
	"strings"

	"github.com/tinytelemetry/actorlog/internal/model"
)

// SeverityRegex matches common severity levels in log text.
var SeverityRegex = regexp.MustCompile(`(?i)\b(TRACE|DEBUG|INFO|WARN|WARNING|ERROR|FATAL|CRITICAL|PANIC)\b`)

// ParseSeverity converts a level name to a Severity. It reports false for
// names it does not recognize.
func ParseSeverity(s string) (model.Severity, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))

	switch normalized {
	case "TRACE", "TRAC", "TRC", "DEBUG", "DEBU", "DBG", "DEB":
		return model.Debug, true
	case "INFO", "INFORMATION", "INF":
		return model.Info, true
	case "WARN", "WARNING", "WRNG", "WRN":
		return model.Warn, true
	case "ERROR", "ERR", "ERRO":
		return model.Error, true
	case "FATAL", "FATL", "FTL", "CRITICAL", "CRIT", "CRT", "PANIC", "PNC":
		return model.Fatal, true
	}

	if len(normalized) >= 4 {
		switch normalized[:4] {
		case "TRAC", "DEBU":
			return model.Debug, true
		case "INFO":
			return model.Info, true
		case "WARN":
			return model.Warn, true
		case "ERRO":
			return model.Error, true
		case "FATA", "CRIT", "PANI":
			return model.Fatal, true
		}
	}
	return model.Info, false
}

// NormalizeSeverity is ParseSeverity with unknown names mapped to fallback.
func NormalizeSeverity(s string, fallback model.Severity) model.Severity {
	if sev, ok := ParseSeverity(s); ok {
		return sev
	}
	return fallback
}

// ExtractSeverityFromText finds the first level keyword in a log line.
func ExtractSeverityFromText(message string, fallback model.Severity) model.Severity {
	matches := SeverityRegex.FindStringSubmatch(message)
	if len(matches) > 1 {
		return NormalizeSeverity(matches[1], fallback)
	}
	return fallback
}
