// Package obs holds small observability helpers.
package obs

import (
	"log"
	"time"
)

// Timed logs how long an operation took when the returned func runs.
//
//	defer obs.Timed(logger, "plan routes")()
func Timed(logger *log.Logger, op string) func() {
	start := time.Now()
	return func() {
		logger.Printf("timing: op=%q elapsed=%s", op, time.Since(start))
	}
}
