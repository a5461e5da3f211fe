package domain

import (
	"time"

	"github.com/google/uuid"
)

// TeamRole represents the role of a member within a team
type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

// Team is an organizational grouping of users. Soft-deleted like Project.
type Team struct {
	BaseModel
	Name        string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	CreatedByID uuid.UUID        `gorm:"type:uuid;not null" json:"created_by_id"`
	IsActive    bool             `gorm:"default:true;index:idx_teams_is_active" json:"is_active"`
	Memberships []TeamMembership `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

// TeamMembership links a user to a team with a team-scoped role
type TeamMembership struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_team_memberships_team_user,priority:1;index:idx_team_memberships_team" json:"team_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_team_memberships_team_user,priority:2;index:idx_team_memberships_user" json:"user_id"`
	Role     TeamRole  `gorm:"type:varchar(10);not null;default:'member'" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
	JoinedAt time.Time `gorm:"type:timestamp;not null;default:now()" json:"joined_at"`
	Team     *Team     `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Team
func (Team) TableName() string {
	return "teams"
}

// TableName specifies the table name for TeamMembership
func (TeamMembership) TableName() string {
	return "team_memberships"
}
