package model

// GlobalStats is the legacy aggregate served by the backend's /api/stats.
// Newer views compute day statistics locally from the snapshot.
type GlobalStats struct {
	TodayBookings   int `json:"todayBookings"`
	PendingPayments int `json:"pendingPayments"`
}
