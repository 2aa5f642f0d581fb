package consultation

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Consultation statuses. `cancelled` is part of the persisted enum but no
// transition produces it; the value is reserved until a trigger is defined.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Follow-up types.
const (
	FollowUpEmail   = "email"
	FollowUpPhone   = "phone"
	FollowUpMeeting = "meeting"
	FollowUpNote    = "note"
)

type FollowUp struct {
	ID            string     `json:"id"`
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedBy     int64      `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// FollowUps is stored as a jsonb array on the consultation row, mirroring the
// embedded-document layout of the original store. Append-only order.
type FollowUps []FollowUp

func (f FollowUps) Value() (driver.Value, error) {
	if f == nil {
		f = FollowUps{}
	}
	return json.Marshal(f)
}

func (f *FollowUps) Scan(value interface{}) error {
	if value == nil {
		*f = FollowUps{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return errors.New("unsupported follow-up column type")
}

type Consultation struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	ClientName    string    `json:"clientName" gorm:"column:client_name;not null"`
	ClientEmail   string    `json:"clientEmail" gorm:"column:client_email;not null"`
	ClientPhone   string    `json:"clientPhone" gorm:"column:client_phone;not null"`
	Company       string    `json:"company,omitempty" gorm:"column:company"`
	ServiceType   string    `json:"serviceType" gorm:"column:service_type;not null"`
	PreferredDate string    `json:"preferredDate" gorm:"column:preferred_date;not null"`
	PreferredTime string    `json:"preferredTime" gorm:"column:preferred_time;not null"`
	Message       string    `json:"message" gorm:"not null"`
	Status        string    `json:"status" gorm:"default:pending"`
	AssignedTo    *int64    `json:"assignedTo,omitempty" gorm:"column:assigned_to"`
	Notes         string    `json:"notes,omitempty" gorm:"column:notes"`
	Priority      string    `json:"priority" gorm:"default:medium"`
	FollowUps     FollowUps `json:"followUps" gorm:"column:follow_ups;type:jsonb"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// transitions is the lifecycle state machine. Anything absent here is an
// invalid transition and must not mutate the record.
var transitions = map[string][]string{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (c *Consultation) CanTransitionTo(next string) bool {
	for _, allowed := range transitions[c.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition moves the consultation to next, assigning the approving actor on
// the first approval only. Notes are merged when non-empty, never blanked.
func (c *Consultation) Transition(next string, actorID int64, notes string) {
	c.Status = next
	if next == StatusApproved && c.AssignedTo == nil {
		c.AssignedTo = &actorID
	}
	if notes != "" {
		c.Notes = notes
	}
	c.UpdatedAt = time.Now()
}

// AddFollowUp appends a follow-up entry; existing entries are never touched.
func (c *Consultation) AddFollowUp(f FollowUp) {
	c.FollowUps = append(c.FollowUps, f)
	c.UpdatedAt = time.Now()
}

// SetFollowUpCompleted flips the completed flag on exactly the matching entry.
func (c *Consultation) SetFollowUpCompleted(followUpID string, completed bool) bool {
	for i := range c.FollowUps {
		if c.FollowUps[i].ID == followUpID {
			c.FollowUps[i].Completed = completed
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known consultation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidFollowUpType reports whether t is a known follow-up type.
func ValidFollowUpType(t string) bool {
	switch t {
	case FollowUpEmail, FollowUpPhone, FollowUpMeeting, FollowUpNote:
		return true
	}
	return false
}
