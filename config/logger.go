package config

import "go.uber.org/zap"

// NewLogger builds a JSON production logger for production and a console
// development logger otherwise.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
