package launcher

import "fmt"

// Startup stages reported by StageError.
const (
	StageTLS     = "tls"
	StageListen  = "listen"
	StageMetrics = "metrics"
)

// StageError reports which startup stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
