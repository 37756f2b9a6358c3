package models

// AdminRoleID is the role id the API assigns to administrators.
const AdminRoleID = 1

// Role is a user role.
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
}

// User represents an account as returned by the API.
type User struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	RoleID             int     `json:"role_id"`
	Status             int     `json:"estado"`
	EmailVerifiedAt    *string `json:"email_verified_at,omitempty"`
	MustChangePassword Flag    `json:"must_change_password,omitempty"`
	Role               *Role   `json:"role,omitempty"`
	CreatedAt          string  `json:"created_at,omitempty"`
	UpdatedAt          string  `json:"updated_at,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.RoleID == AdminRoleID || (u.Role != nil && u.Role.Name == "admin")
}

// UserInput is the admin payload for creating or updating users.
type UserInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	RoleID   int    `json:"role_id,omitempty"`
	Status   *int   `json:"estado,omitempty"`
}

// LoginCredentials is the body of POST /login.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// ChangePasswordInput is the body of POST /auth/change-password-first-login.
type ChangePasswordInput struct {
	UserID               int    `json:"user_id"`
	NewPassword          string `json:"new_password"`
	PasswordConfirmation string `json:"new_password_confirmation"`
}

// ProfileInput is the body of PUT /perfil.
type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MessageResponse is the generic {"message": ...} answer.
type MessageResponse struct {
	Message string `json:"message"`
}
