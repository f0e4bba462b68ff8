package model

import "fmt"

type LedgerStats struct {
	TotalRegistrations int    `json:"totalRegistrations"`
	CheckedInCount     int    `json:"checkedInCount"`
	AttendanceRate     string `json:"attendanceRate"`
}

// Recomputed on every call, the ledger stays demo-scale.
func Summarize(ledger []CreatedEvent) LedgerStats {
	stats := LedgerStats{AttendanceRate: "0"}
	for _, event := range ledger {
		stats.TotalRegistrations += len(event.Attendees)
		for _, attendee := range event.Attendees {
			if attendee.CheckedIn {
				stats.CheckedInCount++
			}
		}
	}
	if stats.TotalRegistrations > 0 {
		rate := float64(stats.CheckedInCount) / float64(stats.TotalRegistrations) * 100
		stats.AttendanceRate = fmt.Sprintf("%.1f", rate)
	}
	return stats
}
