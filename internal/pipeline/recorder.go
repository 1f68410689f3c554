package pipeline

import (
	"time"

	"github.com/nao1215/siteaudit/internal/model"
)

// Recorder observes scan execution, typically to export metrics.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// ObserveModule is called once per module run with its final status.
	ObserveModule(module string, status model.ModuleStatus, elapsed time.Duration)

	// ObserveScan is called once per completed scan.
	ObserveScan(elapsed time.Duration, score int)
}

// nopRecorder discards observations.
type nopRecorder struct{}

func (nopRecorder) ObserveModule(string, model.ModuleStatus, time.Duration) {}
func (nopRecorder) ObserveScan(time.Duration, int) {}
