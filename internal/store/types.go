package store

// Slot names of the three entity collections.
const (
	SlotOperators = "operators"
	SlotMachines  = "machines"
	SlotReports   = "reports"
)
