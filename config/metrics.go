package config

// PrometheusConfig controls the Prometheus exposition endpoint.
type PrometheusConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// InfluxConfig controls the InfluxDB observation sink.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// MetricsConfig groups the monitoring sinks.
type MetricsConfig struct {
	Prometheus PrometheusConfig `json:"prometheus"`
	Influx     InfluxConfig     `json:"influx"`
}

// PromAddr returns the exposition address, defaulting to :2112.
func (c MetricsConfig) PromAddr() string {
	if c.Prometheus.Addr == "" {
		return ":2112"
	}
	return c.Prometheus.Addr
}
