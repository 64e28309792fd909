package provider

import "log"

// logUsageRecorder writes token usage to the process log; cost
// accounting is best effort and never fails a translation.
type logUsageRecorder struct{}

// NewLogUsageRecorder creates a UsageRecorder backed by the standard logger
func NewLogUsageRecorder() UsageRecorder {
	return &logUsageRecorder{}
}

func (r *logUsageRecorder) RecordUsage(requestID, model string, tokens int) {
	log.Printf("provider usage: request=%s model=%s tokens=%d", requestID, model, tokens)
}
