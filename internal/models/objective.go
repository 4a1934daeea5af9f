package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ObjectiveTitleMaxLength       = 255
	ObjectiveDescriptionMaxLength = 1000
)

type Objective struct {
	BaseModel
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"type:varchar(1000)"`
	NotifyAt    *time.Time `json:"notifyAt,omitempty"`
	IsCompleted bool       `json:"isCompleted" gorm:"not null;default:false;index"`
	CreatorID   uuid.UUID  `json:"creatorID" gorm:"type:uuid;not null;index"`

	Creator User    `json:"creator,omitempty" gorm:"foreignKey:CreatorID;references:ID"`
	Grants  []Grant `json:"-" gorm:"foreignKey:ObjectiveID"`
}

func (Objective) TableName() string {
	return "objectives"
}
