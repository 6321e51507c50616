package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/XAdnanAhmedX/JusticeHammer/models"
)

// AdminDashboardLimit caps the admin's case listing at the newest 50.
const AdminDashboardLimit = 50

// CanViewCase is the single authoritative read gate for a case and everything
// hanging off it (timeline, evidence). Every read path must go through it.
// First matching rule wins:
//
//	ADMIN    -> always
//	LITIGANT -> created the case
//	LAWYER   -> a "Lawyer Assigned" timeline event names them
//	OFFICIAL -> the case is assigned to them
//	otherwise -> not visible
func CanViewCase(db *gorm.DB, kase *models.Case, user *models.User) (bool, error) {
	if user == nil {
		return false, nil
	}

	switch user.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RoleLitigant:
		return kase.CreatedByID == user.ID, nil
	case models.RoleLawyer:
		var count int64
		err := db.Model(&models.TimelineEvent{}).
			Where("case_id = ? AND event = ? AND json_extract(meta, '$.lawyerId') = ?",
				kase.ID, models.EventLawyerAssigned, user.ID).
			Count(&count).Error
		if err != nil {
			return false, fmt.Errorf("failed to check lawyer assignment: %w", err)
		}
		return count > 0, nil
	case models.RoleOfficial:
		return kase.AssignedToID != nil && *kase.AssignedToID == user.ID, nil
	default:
		return false, nil
	}
}

// VisibleCases lists the cases the user may read, newest first. It is the
// set-query expression of the CanViewCase predicate and must stay consistent
// with it.
func VisibleCases(db *gorm.DB, user *models.User) ([]models.Case, error) {
	if user == nil {
		return nil, nil
	}

	query := db.Preload("CreatedBy").Preload("AssignedTo").Order("cases.created_at DESC")

	switch user.Role {
	case models.RoleAdmin:
		query = query.Limit(AdminDashboardLimit)
	case models.RoleLitigant:
		query = query.Where("created_by_id = ?", user.ID)
	case models.RoleLawyer:
		query = query.
			Distinct("cases.*").
			Joins("INNER JOIN timeline ON timeline.case_id = cases.id").
			Where("timeline.event = ? AND json_extract(timeline.meta, '$.lawyerId') = ?",
				models.EventLawyerAssigned, user.ID)
	case models.RoleOfficial:
		query = query.Where("assigned_to_id = ?", user.ID)
	default:
		return nil, nil
	}

	var cases []models.Case
	if err := query.Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cases: %w", err)
	}
	return cases, nil
}

// CanManageCase gates the write paths that move a case through its lifecycle:
// admins always, the assigned official for their own cases.
func CanManageCase(kase *models.Case, user *models.User) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return user.IsOfficial() && kase.AssignedToID != nil && *kase.AssignedToID == user.ID
}
