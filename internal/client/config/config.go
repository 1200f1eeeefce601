// Package config handles configuration for the client component, including
// defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the ramenlog client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the record server, e.g.
//     "http://127.0.0.1:8080".
type Config struct {
	ServerEndpointAddr string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
