package user

import (
	"time"

	"github.com/trezcool/attendance/core"
)

// Roles
const (
	RoleStudent  = "student"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

var AllRoles = []string{RoleStudent, RoleEmployee, RoleAdmin}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
}

func (nu *NewUser) Validate(v *core.Validator) error {
	nu.Clean()
	return v.Struct(nu)
}

type QueryFilter struct {
	Role string `query:"role"`
}

func (qf *QueryFilter) Clean() {
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}

// RoleCounts holds the number of registered users per role.
type RoleCounts struct {
	Total     int `json:"total" db:"total"`
	Students  int `json:"students" db:"students"`
	Employees int `json:"employees" db:"employees"`
	Admins    int `json:"admins" db:"admins"`
}
