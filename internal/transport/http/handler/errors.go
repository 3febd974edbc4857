package handler

const (
	errInvalidBody = "Invalid request body"

	errEmailTaken         = "Email already registered"
	errInvalidCredentials = "Invalid email or password"
	errTokenInvalid       = "Invalid or expired token"
	errTaskNotFound       = "Task not found"

	errRegisterFailed = "Failed to register user"
	errLoginFailed    = "Failed to login"
	errListFailed     = "Failed to fetch tasks"
	errCreateFailed   = "Failed to create task"
	errUpdateFailed   = "Failed to update task"
	errDeleteFailed   = "Failed to delete task"
)
