package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

// Contact preference constants for the "Received" event meta
const (
	ContactPrefEmail     = "EMAIL"
	ContactPrefPhone     = "PHONE"
	ContactPrefAnonymous = "ANONYMOUS"
)

var incidentDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CreateCaseInput carries the validated form fields for filing a report.
type CreateCaseInput struct {
	Title             string
	Description       string
	Type              string
	District          string
	IncidentDate      string // YYYY-MM-DD, optional
	ContactPref       string // defaults to EMAIL
	Sensitive         bool
	OpenConsent       bool
	PreferredLawyerID *uint // only recorded when OpenConsent is false
}

// CreateCaseResult is returned on successful filing.
type CreateCaseResult struct {
	CaseID       uint   `json:"caseId"`
	TrackingCode string `json:"trackingCode"`
}

// Validate checks the input without touching storage. The ContactPref default
// is applied here so callers see the normalized value.
func (in *CreateCaseInput) Validate() error {
	if in.Title == "" {
		return missingField("title")
	}
	if in.Type == "" {
		return missingField("type")
	}
	if in.District == "" {
		return missingField("district")
	}
	if !models.IsValidCaseType(in.Type) {
		return &ValidationError{Field: "type", Message: "Invalid case type"}
	}
	if in.ContactPref == "" {
		in.ContactPref = ContactPrefEmail
	}
	switch in.ContactPref {
	case ContactPrefEmail, ContactPrefPhone, ContactPrefAnonymous:
	default:
		return &ValidationError{Field: "contact_pref", Message: "Invalid contact preference"}
	}
	if in.IncidentDate != "" {
		if !incidentDatePattern.MatchString(in.IncidentDate) {
			return &ValidationError{Field: "incident_date", Message: "Invalid incident date format (expected YYYY-MM-DD)"}
		}
		if _, err := time.Parse("2006-01-02", in.IncidentDate); err != nil {
			return &ValidationError{Field: "incident_date", Message: "Invalid incident date format (expected YYYY-MM-DD)"}
		}
	}
	return nil
}

// CreateCase files a report as a single atomic unit: tracking-code
// allocation, the Case row, and the initiating "Received" timeline event all
// commit together or not at all. A unique-constraint collision on the
// tracking code from a concurrent creator counts against the same attempt
// ceiling as a probe collision.
func CreateCase(db *gorm.DB, actor *models.User, in CreateCaseInput) (*CreateCaseResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var result *CreateCaseResult
	err := db.Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < MaxAllocationAttempts; attempt++ {
			code, err := AllocateTrackingCode(tx)
			if err != nil {
				return err
			}

			kase := &models.Case{
				TrackingCode: code,
				Title:        in.Title,
				Type:         in.Type,
				District:     in.District,
				Status:       models.CaseStatusReceived,
				CreatedByID:  actor.ID,
			}
			if in.Description != "" {
				kase.Description = &in.Description
			}
			if in.IncidentDate != "" {
				parsed, _ := time.Parse("2006-01-02", in.IncidentDate)
				kase.IncidentDate = &parsed
			}

			if err := tx.Create(kase).Error; err != nil {
				if isDuplicateTrackingCode(err) {
					// Lost the race to a concurrent creator; retry with a new code
					continue
				}
				return fmt.Errorf("failed to insert case: %w", err)
			}

			meta := models.ReceivedMeta{
				ContactPref: in.ContactPref,
				Sensitive:   in.Sensitive,
				OpenConsent: in.OpenConsent,
			}
			if !in.OpenConsent {
				meta.PreferredLawyerID = in.PreferredLawyerID
			}
			encoded, err := models.EncodeMeta(meta)
			if err != nil {
				return fmt.Errorf("failed to encode timeline meta: %w", err)
			}

			event := &models.TimelineEvent{
				CaseID:  &kase.ID,
				ActorID: actor.ID,
				Event:   models.EventReceived,
				Meta:    encoded,
			}
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("failed to insert timeline event: %w", err)
			}

			result = &CreateCaseResult{CaseID: kase.ID, TrackingCode: code}
			return nil
		}
		return ErrAllocationExhausted
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isDuplicateTrackingCode recognizes a tracking-code uniqueness violation at
// insert time. GORM translates these for some dialects; the message check
// covers SQLite's untranslated form.
func isDuplicateTrackingCode(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: cases.tracking_code")
}

// AdvanceStatus moves a case forward through the lifecycle and appends the
// matching timeline event, atomically.
func AdvanceStatus(db *gorm.DB, actor *models.User, kase *models.Case, newStatus string) error {
	if !models.IsValidCaseStatus(newStatus) {
		return &ValidationError{Field: "status", Message: "Invalid case status"}
	}
	if !kase.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}

	from := kase.Status
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(kase).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update case status: %w", err)
		}
		if err := appendStatusEvent(tx, kase.ID, actor.ID, from, newStatus); err != nil {
			return err
		}
		return nil
	})
}

// AssignOfficial sets the case's assigned official and records the assignment
// in the timeline. If the case has not reached ASSIGNED yet, the lifecycle is
// advanced alongside.
func AssignOfficial(db *gorm.DB, actor *models.User, kase *models.Case, official *models.User) error {
	if !official.IsOfficial() {
		return &ValidationError{Field: "official_id", Message: "Assignee must be an official"}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(kase).Update("assigned_to_id", official.ID).Error; err != nil {
			return fmt.Errorf("failed to assign official: %w", err)
		}

		meta, err := models.EncodeMeta(models.OfficialAssignedMeta{OfficialID: official.ID})
		if err != nil {
			return fmt.Errorf("failed to encode timeline meta: %w", err)
		}
		event := &models.TimelineEvent{
			CaseID:  &kase.ID,
			ActorID: actor.ID,
			Event:   models.EventOfficialAssigned,
			Meta:    meta,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to insert timeline event: %w", err)
		}

		if kase.CanTransitionTo(models.CaseStatusAssigned) {
			from := kase.Status
			if err := tx.Model(kase).Update("status", models.CaseStatusAssigned).Error; err != nil {
				return fmt.Errorf("failed to update case status: %w", err)
			}
			if err := appendStatusEvent(tx, kase.ID, actor.ID, from, models.CaseStatusAssigned); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssignLawyer records a "Lawyer Assigned" timeline event. There is no case
// column for this: the timeline is the source of truth, and the visibility
// resolver and CurrentLawyerID both derive from it.
func AssignLawyer(db *gorm.DB, actor *models.User, kase *models.Case, lawyer *models.User) error {
	if !lawyer.IsLawyer() {
		return &ValidationError{Field: "lawyer_id", Message: "Assignee must be a lawyer"}
	}
	if !lawyer.Verified {
		return &ValidationError{Field: "lawyer_id", Message: "Lawyer account is not verified"}
	}

	meta, err := models.EncodeMeta(models.LawyerAssignedMeta{LawyerID: lawyer.ID})
	if err != nil {
		return fmt.Errorf("failed to encode timeline meta: %w", err)
	}
	event := &models.TimelineEvent{
		CaseID:  &kase.ID,
		ActorID: actor.ID,
		Event:   models.EventLawyerAssigned,
		Meta:    meta,
	}
	if err := db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}

// CurrentLawyerID derives the case's current lawyer from the latest
// "Lawyer Assigned" timeline event. Returns nil if none was ever recorded.
func CurrentLawyerID(db *gorm.DB, caseID uint) (*uint, error) {
	var event models.TimelineEvent
	err := db.Where("case_id = ? AND event = ?", caseID, models.EventLawyerAssigned).
		Order("created_at DESC, id DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lawyer assignment: %w", err)
	}

	decoded, err := event.DecodeMeta()
	if err != nil {
		return nil, fmt.Errorf("failed to decode lawyer assignment meta: %w", err)
	}
	assigned, ok := decoded.(*models.LawyerAssignedMeta)
	if !ok {
		return nil, fmt.Errorf("unexpected meta shape for lawyer assignment event %d", event.ID)
	}
	return &assigned.LawyerID, nil
}

// CaseTimeline lists a case's events in chronological order.
func CaseTimeline(db *gorm.DB, caseID uint) ([]models.TimelineEvent, error) {
	var events []models.TimelineEvent
	if err := db.Preload("Actor").
		Where("case_id = ?", caseID).
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}
	return events, nil
}

func appendStatusEvent(tx *gorm.DB, caseID, actorID uint, from, to string) error {
	meta, err := models.EncodeMeta(models.StatusChangedMeta{From: from, To: to})
	if err != nil {
		return fmt.Errorf("failed to encode timeline meta: %w", err)
	}
	event := &models.TimelineEvent{
		CaseID:  &caseID,
		ActorID: actorID,
		Event:   models.EventStatusChanged,
		Meta:    meta,
	}
	if err := tx.Create(event).Error; err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}
