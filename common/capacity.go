package common

// CapacityMonitor clamps a per-frame count to a fixed budget. It logs a
// warning once when the count first exceeds the budget and a notice once when
// it falls back within it, rather than every frame.
//
// A CapacityMonitor is not safe for concurrent use; each frame stage owns its own.
type CapacityMonitor struct {
	what   string
	limit  int
	logger Logger
	over   bool
}

// NewCapacityMonitor creates a CapacityMonitor.
//
// Parameters:
//   - what: plural noun used in log messages (e.g. "shadow-casting lights")
//   - limit: the budget
//   - logger: destination for transition messages (nil for none)
//
// Returns:
//   - *CapacityMonitor: the monitor
func NewCapacityMonitor(what string, limit int, logger Logger) *CapacityMonitor {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &CapacityMonitor{what: what, limit: limit, logger: logger}
}

// Observe records this frame's count and returns how many may be admitted.
//
// Parameters:
//   - count: the number of items found this frame
//
// Returns:
//   - int: min(count, limit)
func (m *CapacityMonitor) Observe(count int) int {
	if count > m.limit {
		if !m.over {
			dropped := count - m.limit
			m.logger.Warnf("found %d %s, only %d are supported; dropping %d", count, m.what, m.limit, dropped)
			m.over = true
		}
		return m.limit
	}
	if m.over {
		m.logger.Infof("found %d %s, within the supported limit of %d", count, m.what, m.limit)
		m.over = false
	}
	return count
}

// Over reports whether the last observed count exceeded the budget.
func (m *CapacityMonitor) Over() bool {
	return m.over
}

// Limit returns the budget.
func (m *CapacityMonitor) Limit() int {
	return m.limit
}
