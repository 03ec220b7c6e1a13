package log

import "time"

// Timed runs fn and logs its duration at debug level under the op name.
// The result and error of fn are returned unchanged.
func Timed[T any](logger Logger, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	elapsed := time.Since(start)
	if err != nil {
		logger.Debug(op+" failed", Duration("duration", elapsed), Err(err))
		return v, err
	}
	logger.Debug(op+" completed", Duration("duration", elapsed))
	return v, nil
}
