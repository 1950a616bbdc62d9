package config

import "strings"

// ReportConfig controls the optional run report. An empty path disables it.
type ReportConfig struct {
	// Path of the JSON report; the observation CSV lands next to it.
	Path string `json:"path"`
}

// Enabled reports whether a report should be written.
func (c ReportConfig) Enabled() bool { return c.Path != "" }

// CSVPath derives the observation dump location from the report path.
func (c ReportConfig) CSVPath() string {
	return strings.TrimSuffix(c.Path, ".json") + ".csv"
}
