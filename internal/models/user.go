package models

import "time"

type UserType string

const (
	UserTypeSuperAdmin UserType = "super_admin"
	UserTypeSupplier   UserType = "supplier"
	UserTypeUser       UserType = "user"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeSuperAdmin, UserTypeSupplier, UserTypeUser:
		return true
	}
	return false
}

// User is the session principal. Credentials are kept elsewhere.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Type       UserType  `json:"type"`
	SupplierID *string   `json:"supplierId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) Clone() User {
	out := u
	if u.SupplierID != nil {
		id := *u.SupplierID
		out.SupplierID = &id
	}
	return out
}

// Lead is an anonymous visitor's request for a supplier's contact details.
type Lead struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	Message      string    `json:"message,omitempty"`
	SupplierID   string    `json:"supplierId,omitempty"`
	SupplierName string    `json:"supplierName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
