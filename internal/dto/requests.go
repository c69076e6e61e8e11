package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRequest carries a refresh token for the refresh and logout endpoints
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Priority    *int   `json:"priority"`
	IsCompleted *bool  `json:"is_completed"`
}

// UpdateTaskRequest represents a partial task update; only present fields are
// applied
type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	Priority    *int    `json:"priority"`
	IsCompleted *bool   `json:"is_completed"`
}

// ErrorResponse is the uniform failure body
type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse lists field-level validation failures
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// CreatedResponse acknowledges a created resource
type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// RowsResponse acknowledges an update or delete with the affected row count
type RowsResponse struct {
	Message string `json:"message"`
	Rows    int64  `json:"rows"`
}

// RegisterResponse acknowledges a registration and hands out the API key once
type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	APIKey  string `json:"api_key"`
}
