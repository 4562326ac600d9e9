package user

import (
	"time"

	userDatamodel "github.com/finledger/ledger-engine/internal/core/datamodel/user"
)

// User is owned by the external account service. The ledger core treats it
// as an immutable foreign key plus an active flag.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
