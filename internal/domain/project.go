package domain

import (
	"github.com/google/uuid"
)

// Project is the top-level container for boards. Projects are never
// physically removed; deletion flips IsActive.
type Project struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index:idx_projects_created_by" json:"created_by_id"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index:idx_projects_team_id" json:"team_id,omitempty"`
	IsActive    bool       `gorm:"default:true;index:idx_projects_is_active" json:"is_active"`
	Boards      []Board    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"boards,omitempty"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Team        *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// Board groups tasks within a project. Pure grouping entity, no
// lifecycle rules of its own.
type Board struct {
	BaseModel
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index:idx_boards_project_id" json:"project_id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Tasks       []Task    `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}
