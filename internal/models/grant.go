package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Grant gives one non-owner user read access to one objective.
// It does NOT use BaseModel: grant rows are never updated or soft-deleted,
// and the (objective_id, user_id) uniqueness index must not collide with
// tombstones when a revoked pair is shared again.
type Grant struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ObjectiveID uuid.UUID `json:"objectiveID" gorm:"type:uuid;not null;index;uniqueIndex:idx_grants_objective_user"`
	UserID      uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_grants_objective_user"`
	CreatedAt   time.Time `json:"createdAt"`

	Objective Objective `json:"objective,omitempty" gorm:"foreignKey:ObjectiveID;references:ID"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (Grant) TableName() string {
	return "objective_grants"
}

func (g *Grant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
