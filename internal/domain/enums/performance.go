package enums

type Performance string

const (
	PerformanceHigh   Performance = "HIGH"
	PerformanceMedium Performance = "MEDIUM"
	PerformanceLow    Performance = "LOW"
)
