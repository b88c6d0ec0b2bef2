package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"lifeexp/internal/region"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is reported but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one lint finding. Path is a dotted path into the config, such
// as "sinks[1].dsn".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

var (
	knownFormats  = []string{"tsv", "csv", "json", "zip"}
	knownSinks    = []string{"csv", "postgres", "sqlite", "mssql", "mysql"}
	knownBackends = []string{"none", "prometheus", "datadog"}
	knownLevels   = []string{"debug", "info", "warn", "warning", "error"}
)

// ValidateConfig lints cfg without modifying it.
func ValidateConfig(cfg Config) []Issue {
	var issues []Issue
	issues = append(issues, validateInput(cfg.Input)...)
	issues = append(issues, validateRegion(cfg.Region)...)
	for i, s := range cfg.Sinks {
		issues = append(issues, validateSink(fmt.Sprintf("sinks[%d]", i), s)...)
	}
	issues = append(issues, validateRuntime(cfg)...)
	return issues
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Severity == SeverityError })
}

func validateInput(in InputConfig) []Issue {
	var issues []Issue
	if strings.TrimSpace(in.Path) == "" {
		issues = append(issues, Issue{SeverityError, "input.path", "input.path must not be empty"})
	}
	if in.Format != "" && !slices.Contains(knownFormats, strings.ToLower(in.Format)) {
		issues = append(issues, Issue{SeverityError, "input.format",
			fmt.Sprintf("unknown format %q; want one of %s", in.Format, strings.Join(knownFormats, ", "))})
	}
	if in.Comma != "" && utf8.RuneCountInString(in.Comma) != 1 {
		issues = append(issues, Issue{SeverityError, "input.comma",
			fmt.Sprintf("comma must be a single character, got %q", in.Comma)})
	}
	if slices.Contains(in.NAValues, "") {
		issues = append(issues, Issue{SeverityWarning, "input.na_values",
			"empty string is always treated as missing; listing it has no effect"})
	}
	return issues
}

func validateRegion(r RegionConfig) []Issue {
	code := strings.TrimSpace(r.Code)
	switch {
	case code == "":
		return []Issue{{SeverityError, "region.code", "region.code must not be empty"}}
	case code != r.Code:
		return []Issue{{SeverityError, "region.code", fmt.Sprintf("region.code %q has surrounding whitespace", r.Code)}}
	case r.IsStrict() && !region.European.Contains(code):
		return []Issue{{SeverityWarning, "region.code",
			fmt.Sprintf("region %q is not one of %s; cleaning will reject it unless region.strict=false", code, region.European)}}
	}
	return nil
}

func validateSink(path string, s SinkConfig) []Issue {
	var issues []Issue
	if s.Kind == "" {
		return []Issue{{SeverityError, path + ".kind", "sink kind must not be empty"}}
	}
	if !slices.Contains(knownSinks, s.Kind) {
		issues = append(issues, Issue{SeverityWarning, path + ".kind",
			fmt.Sprintf("unknown sink kind %q; ensure a matching backend is registered", s.Kind)})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{SeverityError, path + ".dsn", "dsn must not be empty"})
	}
	if s.Kind != "csv" && strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{SeverityError, path + ".table", "table must not be empty"})
	}
	if s.Kind == "csv" && (s.AutoCreateTable || s.Replace) {
		issues = append(issues, Issue{SeverityWarning, path,
			"auto_create_table and replace have no effect on csv sinks"})
	}
	if s.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, path + ".batch_size",
			fmt.Sprintf("batch_size=%d must not be negative", s.BatchSize)})
	}
	return issues
}

func validateRuntime(cfg Config) []Issue {
	var issues []Issue
	if cfg.HTTP.MaxRetries < 0 {
		issues = append(issues, Issue{SeverityError, "http.max_retries", "max_retries must not be negative"})
	}
	if cfg.HTTP.Timeout < 0 {
		issues = append(issues, Issue{SeverityError, "http.timeout", "timeout must not be negative"})
	}
	if cfg.Log.Level != "" && !slices.Contains(knownLevels, strings.ToLower(cfg.Log.Level)) {
		issues = append(issues, Issue{SeverityWarning, "log.level",
			fmt.Sprintf("unknown level %q; info is used", cfg.Log.Level)})
	}

	m := cfg.Metrics
	if m.Backend != "" && !slices.Contains(knownBackends, m.Backend) {
		issues = append(issues, Issue{SeverityError, "metrics.backend",
			fmt.Sprintf("unknown metrics backend %q; want one of %s", m.Backend, strings.Join(knownBackends, ", "))})
	}
	if m.Backend == "prometheus" {
		if u, err := url.Parse(m.PushgatewayURL); m.PushgatewayURL == "" || err != nil || u.Host == "" {
			issues = append(issues, Issue{SeverityError, "metrics.pushgateway_url",
				"prometheus backend requires an absolute pushgateway_url"})
		}
	}
	if m.Backend != "none" && strings.TrimSpace(m.Job) == "" {
		issues = append(issues, Issue{SeverityError, "metrics.job",
			"job must not be empty; it labels every pushed metric"})
	}
	return issues
}
