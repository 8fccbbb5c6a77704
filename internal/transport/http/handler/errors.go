package handler

const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid email or password"
	errDuplicateUser      = "Username or email already registered"
	errRefreshForbidden   = "Refresh token is invalid or expired"
	errUserNotFound       = "User not found"
	errTodoNotFound       = "Todo not found"
)
