package model

// User is a dashboard user. Identity comes from the external auth provider;
// this table only records which role an email address holds.
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Name     string `gorm:"type:varchar(255)" json:"name" validate:"max=255"`
	Role     string `gorm:"type:varchar(20);not null" json:"role" validate:"required,oneof=admin salesman"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// Role codes as constants
const (
	RoleAdmin    = "admin"
	RoleSalesman = "salesman"
)

// UserResponse is used for API responses
type UserResponse struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
