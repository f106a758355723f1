package model

// Role identifies the kind of principal acting on a request,
// as asserted by the external identity provider.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)
