package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Timeline event vocabulary
const (
	EventReceived            = "Received"
	EventLawyerAssigned      = "Lawyer Assigned"
	EventOfficialAssigned    = "Official Assigned"
	EventStatusChanged       = "Status Changed"
	EventVerificationRequest = "Verification Request"
)

var errTimelineImmutable = errors.New("timeline events are append-only")

// TimelineEvent is one entry in the append-only log. CaseID is nil for
// user-level events such as verification requests.
type TimelineEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CaseID *uint `gorm:"index" json:"case_id,omitempty"`
	Case   *Case `gorm:"foreignKey:CaseID" json:"-"`

	ActorID uint `gorm:"not null;index" json:"actor_id"`
	Actor   User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`

	Event string `gorm:"not null;index" json:"event"`

	// JSON payload whose shape depends on Event. See DecodeMeta.
	Meta string `gorm:"type:text" json:"meta,omitempty"`
}

// TableName specifies the table name for TimelineEvent model
func (TimelineEvent) TableName() string {
	return "timeline"
}

// BeforeUpdate prevents modification of timeline events (immutability)
func (t *TimelineEvent) BeforeUpdate(tx *gorm.DB) error {
	return errTimelineImmutable
}

// BeforeDelete prevents deletion of timeline events (immutability)
func (t *TimelineEvent) BeforeDelete(tx *gorm.DB) error {
	return errTimelineImmutable
}

// ReceivedMeta is the payload of the initial "Received" event. Key spellings
// match the stored rows: snake_case, with preferred_lawyer_id present only
// when the filer did not grant open consent.
type ReceivedMeta struct {
	ContactPref       string `json:"contact_pref"`
	Sensitive         bool   `json:"sensitive"`
	OpenConsent       bool   `json:"open_consent"`
	PreferredLawyerID *uint  `json:"preferred_lawyer_id,omitempty"`
}

// LawyerAssignedMeta names the lawyer taking the case. The camelCase key is
// load-bearing: visibility queries extract $.lawyerId from stored rows.
type LawyerAssignedMeta struct {
	LawyerID uint `json:"lawyerId"`
}

// OfficialAssignedMeta names the official the case was assigned to.
type OfficialAssignedMeta struct {
	OfficialID uint `json:"officialId"`
}

// StatusChangedMeta records a lifecycle transition.
type StatusChangedMeta struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// VerificationRequestMeta points at an uploaded credential document.
type VerificationRequestMeta struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
}

// RawMeta is the fallback for events outside the known vocabulary.
type RawMeta map[string]interface{}

// EncodeMeta serializes an event payload for storage.
func EncodeMeta(meta interface{}) (string, error) {
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMeta interprets the stored payload according to the event name,
// returning the typed variant for known events and RawMeta otherwise.
func (t *TimelineEvent) DecodeMeta() (interface{}, error) {
	if t.Meta == "" {
		return nil, nil
	}

	var target interface{}
	switch t.Event {
	case EventReceived:
		target = &ReceivedMeta{}
	case EventLawyerAssigned:
		target = &LawyerAssignedMeta{}
	case EventOfficialAssigned:
		target = &OfficialAssignedMeta{}
	case EventStatusChanged:
		target = &StatusChangedMeta{}
	case EventVerificationRequest:
		target = &VerificationRequestMeta{}
	default:
		target = &RawMeta{}
	}

	if err := json.Unmarshal([]byte(t.Meta), target); err != nil {
		return nil, err
	}

	switch v := target.(type) {
	case *RawMeta:
		return *v, nil
	default:
		return v, nil
	}
}
