package user

import "errors"

type Role string

const (
	RoleCustomer        Role = "CUSTOMER"
	RoleStoreOwner      Role = "STORE_OWNER"
	RoleDeliveryPartner Role = "DELIVERY_PARTNER"
	RoleAdmin           Role = "ADMIN"
)

// Valid reports whether r is one of the platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStoreOwner, RoleDeliveryPartner, RoleAdmin:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusVerified  Status = "VERIFIED"
	StatusSuspended Status = "SUSPENDED"
	StatusRejected  Status = "REJECTED"
)

var ErrUserNotFound = errors.New("user not found")

// User is the subset of the platform user record read by the realtime layer.
type User struct {
	ID     string
	Email  string
	Name   string
	Role   Role
	Status Status
}

// Actor is the verified identity bound to a connection. It is resolved once
// at handshake time and never mutated afterwards.
type Actor struct {
	ID     string
	Role   Role
	Status Status
}

// Actor returns the connection identity for u.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Status: u.Status}
}

func (a Actor) Is(role Role) bool { return a.Role == role }
