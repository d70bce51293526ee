package enum

// ── Group A: State machines (in-memory, not persisted) ──

const (
	BuilderStateUninitialized = "UNINITIALIZED"
	BuilderStateLoaded        = "LOADED"
	BuilderStateDirty         = "DIRTY"
)

// ── Group B: Wire labels ──

const (
	EventOrderCount = "order_count"
)

const (
	ScopeAdmin = "admin"
)

// ── Group C: Report granularity (URL path segments) ──

const (
	ReportSummary = "summary"
	ReportDaily   = "daily"
	ReportMonthly = "monthly"
	ReportYearly  = "yearly"
	ReportItems   = "items"
)
