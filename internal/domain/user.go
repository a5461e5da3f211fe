package domain

// Role is the single authorization axis of the system
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User represents an account known to the tracker. Account creation and
// authentication live in an external accounts system; this table mirrors
// the identities referenced by tasks, projects and notifications.
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Role     Role   `gorm:"type:varchar(10);not null;default:'member';index:idx_users_role" json:"role"`
	IsActive bool   `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the name used in notification messages
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
