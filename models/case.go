package models

import (
	"time"
)

// Case status constants. A case only ever moves forward through these.
const (
	CaseStatusReceived   = "RECEIVED"
	CaseStatusTriaged    = "TRIAGED"
	CaseStatusAssigned   = "ASSIGNED"
	CaseStatusInProgress = "IN_PROGRESS"
	CaseStatusClosed     = "CLOSED"
)

// Case type constants
const (
	CaseTypeCrime       = "Crime"
	CaseTypeGBV         = "Gender-Based Violence"
	CaseTypeLandDispute = "Land Dispute"
	CaseTypeCorruption  = "Corruption"
	CaseTypeOther       = "Other"
)

// statusRank orders the lifecycle for forward-only transitions
var statusRank = map[string]int{
	CaseStatusReceived:   0,
	CaseStatusTriaged:    1,
	CaseStatusAssigned:   2,
	CaseStatusInProgress: 3,
	CaseStatusClosed:     4,
}

// Case represents a filed incident report
type Case struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Public-facing identifier, allocated once at creation, never reassigned
	TrackingCode string `gorm:"size:8;uniqueIndex;not null" json:"tracking_code"`

	Title        string     `gorm:"not null" json:"title"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	Type         string     `gorm:"not null" json:"type"`
	District     string     `gorm:"not null" json:"district"`
	IncidentDate *time.Time `json:"incident_date,omitempty"`

	Status string `gorm:"not null;default:RECEIVED;index" json:"status"`

	// Creator (LITIGANT, or ADMIN for operator-assisted filing). Immutable.
	CreatedByID uint `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	// Assigned OFFICIAL. Lawyer assignment lives in the timeline, not here.
	AssignedToID *uint `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsClosed checks if the case is closed
func (c *Case) IsClosed() bool {
	return c.Status == CaseStatusClosed
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

// IsValidCaseType checks if the case type is one of the enumerated values
func IsValidCaseType(t string) bool {
	switch t {
	case CaseTypeCrime, CaseTypeGBV, CaseTypeLandDispute, CaseTypeCorruption, CaseTypeOther:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from the case's
// current status to the given one. Transitions only advance, never rewind.
func (c *Case) CanTransitionTo(status string) bool {
	to, ok := statusRank[status]
	if !ok {
		return false
	}
	from, ok := statusRank[c.Status]
	if !ok {
		return false
	}
	return to > from
}
