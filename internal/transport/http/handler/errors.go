package handler

const (
	errInternalServer     = "Internal server error"
	errEmailTaken         = "Email already registered"
	errWeakPassword       = "Password must be at least 8 characters"
	errInvalidCredentials = "Invalid email or password"
	errAccountNotFound    = "Account not found"
	errItemNotFound       = "Item not found"
	errForbidden          = "You do not own this resource"
)
