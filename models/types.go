package models

import (
	"strings"
	"time"
)

// Gender values stored in the directory
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Role values
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Post-login redirect targets
const (
	RedirectAdmin     = "/admin"
	RedirectDashboard = "/dashboard"
)

// Request types

type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,max=32"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

// SetupAdminRequest caps the password at bcrypt's 72-byte input limit.
type SetupAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *SetupAdminRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

// CreatePollRequest is also used for PUT /admin/polls/{id}
type CreatePollRequest struct {
	Question  string   `json:"question" validate:"required,max=500"`
	PollDate  string   `json:"poll_date" validate:"required,polldate"`
	StartTime string   `json:"start_time" validate:"required,clock"`
	EndTime   string   `json:"end_time" validate:"required,clock"`
	Options   []string `json:"options" validate:"required,min=2,dive,max=200"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

type AddDirectoryEntryRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=32"`
	FullName string `json:"full_name" validate:"max=200"`
	Gender   string `json:"gender" validate:"omitempty,oneof=male female"`
	Hostel   string `json:"hostel" validate:"max=100"`
}

func (r *AddDirectoryEntryRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.Hostel = strings.TrimSpace(r.Hostel)
}

type SetVisibilityRequest struct {
	IsVisible *bool `json:"is_visible" validate:"required"`
}

// Response types

type SuccessResponse struct {
	Success bool `json:"success"`
}

type SessionResponse struct {
	Token    string `json:"token,omitempty"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	Redirect string `json:"redirect"`
}

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
}

type ToggleResponse struct {
	IsActive bool `json:"is_active"`
}

type VoteResponse struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

type ImportResponse struct {
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Message   string `json:"message"`
}

// Domain types

// AuthorizedIdentity is a pre-approved voter in the directory.
type AuthorizedIdentity struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	FullName     *string   `db:"full_name" json:"full_name"`
	Gender       string    `db:"gender" json:"gender"`
	Hostel       *string   `db:"hostel" json:"hostel"`
	IsRegistered bool      `db:"is_registered" json:"is_registered"`
	IsVisible    bool      `db:"is_visible" json:"is_visible"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Account is a provisioned login identity.
type Account struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"` // Never expose in JSON
	EmailVerified bool      `db:"email_verified" json:"email_verified"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// UserProfile mirrors the directory's demographic fields for an account.
type UserProfile struct {
	UserID    string  `db:"user_id" json:"user_id"`
	Email     string  `db:"email" json:"email"`
	Phone     *string `db:"phone" json:"-"`
	FullName  *string `db:"full_name" json:"full_name"`
	Gender    *string `db:"gender" json:"gender"`
	Hostel    *string `db:"hostel" json:"hostel"`
	IsVisible bool    `db:"is_visible" json:"is_visible"`
}

type Poll struct {
	ID        string    `db:"id" json:"id"`
	Question  string    `db:"question" json:"question"`
	PollDate  string    `db:"poll_date" json:"poll_date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PollOption struct {
	ID         string `db:"id" json:"id"`
	PollID     string `db:"poll_id" json:"poll_id"`
	OptionText string `db:"option_text" json:"option_text"`
	SortOrder  int    `db:"sort_order" json:"sort_order"`
}

type PollWithOptions struct {
	Poll    Poll         `json:"poll"`
	Options []PollOption `json:"options"`
}

type Vote struct {
	ID       string    `db:"id" json:"id"`
	PollID   string    `db:"poll_id" json:"poll_id"`
	OptionID string    `db:"option_id" json:"option_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	VotedAt  time.Time `db:"voted_at" json:"voted_at"`
}

// Error response

type ErrorResponse struct {
	Error             string   `json:"error"`
	AlreadyRegistered bool     `json:"already_registered,omitempty"`
	Fields            []string `json:"fields,omitempty"`
}
