package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskshare/backend/internal/models"
	"github.com/taskshare/backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantService owns the share/revoke/list-grants lifecycle. All three
// operations are gated on ownership through the access policy.
type GrantService struct {
	DB       *gorm.DB
	Access   *AccessService
	Notifier Notifier
}

func NewGrantService(db *gorm.DB, access *AccessService, notifier Notifier) *GrantService {
	return &GrantService{DB: db, Access: access, Notifier: notifier}
}

// Share grants granteeID read access to the objective. Granting an
// already-granted pair (the owner included) returns the existing grant
// with created=false; no duplicate row and no second notification. The
// insert races through the (objective_id, user_id) uniqueness index, so
// concurrent shares of the same pair collapse to one row.
func (s *GrantService) Share(ctx context.Context, objectiveID, granteeID, requesterID uuid.UUID) (*models.Grant, bool, error) {
	objective, err := s.Access.Authorize(ctx, requesterID, objectiveID, OperationShare)
	if err != nil {
		return nil, false, err
	}

	var grantee models.User
	if err := s.DB.WithContext(ctx).First(&grantee, "id = ?", granteeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("loading grantee: %w", err)
	}

	grant := models.Grant{ObjectiveID: objectiveID, UserID: granteeID}
	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "objective_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&grant)
	if result.Error != nil {
		return nil, false, fmt.Errorf("creating grant: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var existing models.Grant
		if err := s.DB.WithContext(ctx).
			First(&existing, "objective_id = ? AND user_id = ?", objectiveID, granteeID).Error; err != nil {
			return nil, false, fmt.Errorf("loading existing grant: %w", err)
		}
		return &existing, false, nil
	}

	s.notifyGrantee(ctx, objective, &grantee)

	return &grant, true, nil
}

// Revoke removes the grant for (objective, grantee). Revoking a pair
// that was never granted is a no-op, not an error.
func (s *GrantService) Revoke(ctx context.Context, objectiveID, granteeID, requesterID uuid.UUID) error {
	if _, err := s.Access.Authorize(ctx, requesterID, objectiveID, OperationRevoke); err != nil {
		return err
	}

	err := s.DB.WithContext(ctx).
		Delete(&models.Grant{}, "objective_id = ? AND user_id = ?", objectiveID, granteeID).Error
	if err != nil {
		return fmt.Errorf("deleting grant: %w", err)
	}
	return nil
}

// List returns the objective's grants with grantee identities preloaded,
// oldest grant first.
func (s *GrantService) List(ctx context.Context, objectiveID, requesterID uuid.UUID) ([]models.Grant, error) {
	if _, err := s.Access.Authorize(ctx, requesterID, objectiveID, OperationListGrants); err != nil {
		return nil, err
	}

	var grants []models.Grant
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("objective_id = ?", objectiveID).
		Order("created_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("loading grants: %w", err)
	}
	return grants, nil
}

// notifyGrantee emails the grantee about the new share. The grant row is
// already committed; a send failure is logged and swallowed, never
// retried, and never surfaced to the caller.
func (s *GrantService) notifyGrantee(ctx context.Context, objective *models.Objective, grantee *models.User) {
	if s.Notifier == nil {
		return
	}

	subject := fmt.Sprintf("An objective was shared with you: %s", objective.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\nThe objective %q has been shared with you. You can now view it in your shared objectives.\n",
		grantee.DisplayName(), objective.Title,
	)

	if err := s.Notifier.Send(ctx, grantee.Email, subject, body); err != nil {
		logger.Error("grant_notification_failed", err, map[string]interface{}{
			"objective_id": objective.ID.String(),
			"grantee_id":   grantee.ID.String(),
		})
	}
}
