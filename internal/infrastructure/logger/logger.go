package logger

import "go.uber.org/zap"

// New returns a console-friendly logger for development and JSON everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
