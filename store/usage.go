package store

// UsageWindow is one persisted historical usage-accounting window.
type UsageWindow struct {
	ID      int64
	UID     string
	StartTs int64
	EndTs   int64
}

// FindUsageWindow filters usage window lookups.
type FindUsageWindow struct {
	// SinceTs keeps windows that end at or after this timestamp.
	SinceTs *int64
	// ActiveAtTs keeps windows whose [start, end) contains this timestamp.
	ActiveAtTs *int64
}

// HourlyUsage is one persisted cumulative usage sample. CumulativePct counts
// up within a window and resets to zero at window boundaries.
type HourlyUsage struct {
	ID            int64
	DateHourKey   string
	CumulativePct float64
	ObservedTs    int64
}

// FindHourlyUsage filters hourly usage lookups.
type FindHourlyUsage struct {
	// SinceTs keeps samples observed at or after this timestamp.
	SinceTs *int64
}
