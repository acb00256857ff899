package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the production logger shared by all components.
// Every entry carries the component name so logs from the single
// binary can still be filtered per component.
func New(component string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true

	log, err := cfg.Build(zap.Fields(zap.String("component", component)))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
