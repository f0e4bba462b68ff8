package model

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type PaymentStatus string

const (
	// set at creation for attendees of free events, never leaves
	PAYMENT_STATUS_FREE = PaymentStatus("free")
	// initial status for attendees of paid events
	PAYMENT_STATUS_PENDING = PaymentStatus("pending")
	// reached from pending only, never reversed
	PAYMENT_STATUS_PAID = PaymentStatus("paid")
)

type EventType string

const (
	EVENT_TYPE_PHYSICAL = EventType("physical")
	EVENT_TYPE_VIRTUAL  = EventType("virtual")
	EVENT_TYPE_HYBRID   = EventType("hybrid")
)

type Attendee struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	CheckedIn     bool          `json:"checkedIn"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// Returns true if the status moved from pending to paid. Paid and
// free are terminal, calling again is a no-op.
func (a *Attendee) CompletePayment() bool {
	if a.PaymentStatus != PAYMENT_STATUS_PENDING {
		return false
	}
	a.PaymentStatus = PAYMENT_STATUS_PAID
	return true
}

type CreatedEvent struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Attendees   []Attendee `json:"attendees"`
	Paid        bool       `json:"paid"`
}

// Header row then one row per attendee in ledger order. Fields are
// joined raw, a literal comma inside a name or email corrupts the
// row, matching the web client's export.
func (e *CreatedEvent) AttendeesCSV() string {
	lines := make([]string, 0, len(e.Attendees)+1)
	lines = append(lines, "Name,Email,Checked In,Payment Status")
	for _, attendee := range e.Attendees {
		checkedIn := "No"
		if attendee.CheckedIn {
			checkedIn = "Yes"
		}
		lines = append(lines, strings.Join([]string{
			attendee.Name,
			attendee.Email,
			checkedIn,
			string(attendee.PaymentStatus),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

func (e *CreatedEvent) CSVFileName() string {
	return e.Title + "-attendees.csv"
}

// The two-step creation form. Step one collects the event details,
// step two the additional info.
type EventDraft struct {
	EventName string    `json:"eventName"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	EventType EventType `json:"eventType"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`

	Description   string `json:"description"`
	ZoomLink      string `json:"zoomLink"`
	MediaUrl      string `json:"mediaUrl"`
	PaymentMethod string `json:"paymentMethod"`
}

func (d *EventDraft) ValidateDetails() error {
	switch {
	case d.EventName == "":
		return fmt.Errorf("(*EventDraft).ValidateDetails: event name is blank")
	case d.StartDate == "":
		return fmt.Errorf("(*EventDraft).ValidateDetails: start date is blank")
	case d.EndDate == "":
		return fmt.Errorf("(*EventDraft).ValidateDetails: end date is blank")
	case d.StartTime == "":
		return fmt.Errorf("(*EventDraft).ValidateDetails: start time is blank")
	case d.EndTime == "":
		return fmt.Errorf("(*EventDraft).ValidateDetails: end time is blank")
	}

	switch d.EventType {
	case EVENT_TYPE_PHYSICAL, EVENT_TYPE_HYBRID:
		if d.Location == "" {
			return fmt.Errorf("(*EventDraft).ValidateDetails: location is required for physical or hybrid events")
		}
	case EVENT_TYPE_VIRTUAL:
	default:
		return fmt.Errorf("(*EventDraft).ValidateDetails: unknown event type %q", d.EventType)
	}

	// dates stay free text at rest; ordering is only enforced when
	// both sides parse as calendar dates
	startDate, startErr := time.Parse("2006-01-02", d.StartDate)
	endDate, endErr := time.Parse("2006-01-02", d.EndDate)
	if startErr == nil && endErr == nil && startDate.After(endDate) {
		return fmt.Errorf("(*EventDraft).ValidateDetails: start date must be before end date")
	}

	return nil
}

func (d *EventDraft) ValidateAdditional() error {
	if d.Description == "" {
		return fmt.Errorf("(*EventDraft).ValidateAdditional: description is blank")
	}
	return nil
}

// Virtual and hybrid events get a generated meeting link when the
// field is blank; switching to physical clears it.
func (d *EventDraft) ApplyEventType() {
	switch d.EventType {
	case EVENT_TYPE_VIRTUAL, EVENT_TYPE_HYBRID:
		if d.ZoomLink == "" {
			d.ZoomLink = fmt.Sprintf("https://zoom.us/j/%d", 100000000+rand.Intn(900000000))
		}
	case EVENT_TYPE_PHYSICAL:
		d.ZoomLink = ""
	}
}

// Build the ledger record. The attendee list starts empty, attendees
// only arrive through the separate registration flow.
func (d *EventDraft) Build(id int64) CreatedEvent {
	return CreatedEvent{
		ID:          id,
		Title:       d.EventName,
		Date:        d.StartDate + " " + d.StartTime,
		Description: d.Description,
		Attendees:   []Attendee{},
		Paid:        d.PaymentMethod != "free",
	}
}
