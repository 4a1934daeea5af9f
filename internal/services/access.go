package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskshare/backend/internal/models"
	"gorm.io/gorm"
)

// Operation is what a requester wants to do with an objective.
type Operation string

const (
	OperationRead       Operation = "read"
	OperationUpdate     Operation = "update"
	OperationDelete     Operation = "delete"
	OperationShare      Operation = "share"
	OperationRevoke     Operation = "revoke"
	OperationListGrants Operation = "list_grants"
)

var (
	ErrObjectiveNotFound = errors.New("objective not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrUserNotFound      = errors.New("user not found")
)

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// Authorize resolves the objective and decides whether requesterID may
// perform op on it. A missing objective is always reported as
// ErrObjectiveNotFound before any denial, so callers can tell "no such
// task" apart from "forbidden". On success the fetched objective is
// returned so callers do not load it twice.
//
// The owner may do everything. A granted user may only read. Everything
// else is ErrAccessDenied.
func (a *AccessService) Authorize(ctx context.Context, requesterID, objectiveID uuid.UUID, op Operation) (*models.Objective, error) {
	var objective models.Objective
	if err := a.DB.WithContext(ctx).First(&objective, "id = ?", objectiveID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObjectiveNotFound
		}
		return nil, fmt.Errorf("loading objective: %w", err)
	}

	if objective.CreatorID == requesterID {
		return &objective, nil
	}

	if op == OperationRead {
		granted, err := a.hasGrant(ctx, objectiveID, requesterID)
		if err != nil {
			return nil, err
		}
		if granted {
			return &objective, nil
		}
	}

	return nil, ErrAccessDenied
}

func (a *AccessService) hasGrant(ctx context.Context, objectiveID, userID uuid.UUID) (bool, error) {
	var count int64
	err := a.DB.WithContext(ctx).
		Model(&models.Grant{}).
		Where("objective_id = ? AND user_id = ?", objectiveID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking grant: %w", err)
	}
	return count > 0, nil
}
