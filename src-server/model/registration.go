package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	REGISTRATION_STATUS_UPCOMING  = RegistrationStatus("upcoming")
	REGISTRATION_STATUS_ONGOING   = RegistrationStatus("ongoing")
	REGISTRATION_STATUS_COMPLETED = RegistrationStatus("completed")
)

// One row on the "my registrations" page. Registrations are kept
// separate from the created-events ledger, registering for a catalog
// event does not feed any CreatedEvent attendee list.
type Registration struct {
	ID             int64              `json:"id"`
	EventID        int                `json:"eventId"`
	EventTitle     string             `json:"eventTitle"`
	Date           string             `json:"date"`
	Location       string             `json:"location"`
	Type           string             `json:"type"`
	Status         RegistrationStatus `json:"status"`
	Attendees      int                `json:"attendees"`
	RegisteredDate string             `json:"registeredDate"`
	TicketNumber   string             `json:"ticketNumber"`
}

func (r *Registration) TicketURL() string {
	return fmt.Sprintf("https://eventhub.local/my-events/%d-%s", r.EventID, r.TicketNumber)
}

func NewTicketNumber(now time.Time) string {
	return fmt.Sprintf("TKT-%s-%d",
		strings.ToUpper(uuid.NewString()[0:8]),
		now.Year())
}

type RegistrationStats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

func SummarizeRegistrations(registrations []Registration) RegistrationStats {
	stats := RegistrationStats{Total: len(registrations)}
	for _, registration := range registrations {
		switch registration.Status {
		case REGISTRATION_STATUS_UPCOMING:
			stats.Upcoming++
		case REGISTRATION_STATUS_COMPLETED:
			stats.Completed++
		}
	}
	return stats
}

// The demo rows the registrations page starts out with.
func MockRegistrations() []Registration {
	return []Registration{
		{
			ID:             1,
			EventID:        1,
			EventTitle:     "Tech Networking Mixer",
			Date:           "Nov 15, 2025",
			Location:       "Bangalore, India",
			Type:           "Physical",
			Status:         REGISTRATION_STATUS_UPCOMING,
			Attendees:      45,
			RegisteredDate: "Oct 20, 2025",
			TicketNumber:   "TKT-001-2025",
		},
		{
			ID:             5,
			EventID:        5,
			EventTitle:     "JavaScript Fundamentals",
			Date:           "Nov 28, 2025",
			Location:       "Virtual",
			Type:           "Virtual",
			Status:         REGISTRATION_STATUS_UPCOMING,
			Attendees:      120,
			RegisteredDate: "Oct 18, 2025",
			TicketNumber:   "TKT-002-2025",
		},
		{
			ID:             8,
			EventID:        8,
			EventTitle:     "UX Design Bootcamp",
			Date:           "Dec 8-12, 2025",
			Location:       "Virtual",
			Type:           "Virtual",
			Status:         REGISTRATION_STATUS_UPCOMING,
			Attendees:      500,
			RegisteredDate: "Oct 15, 2025",
			TicketNumber:   "TKT-003-2025",
		},
	}
}
