package httpserver

import (
	"net/mail"
	"time"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerRequest) validate() map[string]string {
	errs := map[string]string{}
	if len(r.Username) < 3 || len(r.Username) > 20 {
		errs["username"] = "Username must be 3-20 characters"
	}
	if !validEmail(r.Email) {
		errs["email"] = "Invalid email address"
	}
	if len(r.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	return errs
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() map[string]string {
	errs := map[string]string{}
	if !validEmail(r.Email) {
		errs["email"] = "Invalid email address"
	}
	if len(r.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r *updateProfileRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Username == "" && r.Email == "" {
		errs["body"] = "At least one field (username or email) must be provided"
		return errs
	}
	if r.Username != "" && (len(r.Username) < 3 || len(r.Username) > 20) {
		errs["username"] = "Username must be 3-20 characters"
	}
	if r.Email != "" && !validEmail(r.Email) {
		errs["email"] = "Invalid email address"
	}
	return errs
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *changePasswordRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.CurrentPassword == "" {
		errs["currentPassword"] = "Current password is required"
	}
	if len(r.NewPassword) < 8 {
		errs["newPassword"] = "New password must be at least 8 characters"
	}
	return errs
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r *taskRequest) validate(requireTitle bool) map[string]string {
	errs := map[string]string{}
	if requireTitle && r.Title == "" {
		errs["title"] = "Title is required"
	}
	if len(r.Title) > 200 {
		errs["title"] = "Title must be at most 200 characters"
	}
	switch r.Status {
	case "", "todo", "in_progress", "done":
	default:
		errs["status"] = "Status must be one of: todo, in_progress, done"
	}
	return errs
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
