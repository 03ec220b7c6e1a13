// Package log provides a logging abstraction for packship components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. Default implementations are provided for zerolog
// and a no-op logger for testing.
//
// # Usage
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or use the no-op logger for testing:
//
//	logger := log.NewNoopLogger()
//
// # Timing
//
// Wrap an operation at its call site to log how long it took:
//
//	p, err := log.Timed(logger, "group", func() (*domain.Partition, error) {
//	    return group.Group(ctx, src, cfg)
//	})
package log
