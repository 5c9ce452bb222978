package models

import (
	"time"

	"gorm.io/gorm"
)

// FamilyMember 家庭成员
type FamilyMember struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:50;not null"`
	Relationship string         `json:"relationship" gorm:"size:50"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}
