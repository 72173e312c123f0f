package models

// UserRole represents a user's role in the company
type UserRole string

const (
	UserRoleAdmin          UserRole = "ADMIN"
	UserRoleProjectManager UserRole = "PROJECT_MANAGER"
	UserRoleFieldCrew      UserRole = "FIELD_CREW"
)

// User represents an account that can sign in and manage jobs
type User struct {
	Base
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	Role          UserRole       `gorm:"not null;default:FIELD_CREW" json:"role"`
	Phone         string         `json:"phone,omitempty"`
	ManagedJobs   []Job          `gorm:"foreignKey:ProjectManagerID" json:"managedJobs,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}
