package services

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/models"
	repo "github.com/baharkarakas/shelfhub/internal/repository"
)

const (
	MinPasswordLength = 8
	specialChars      = `!@#$%^&*(),.?":{}|<>`
)

// Field names used in validation errors.
const (
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPassword1 = "password1"
	FieldPassword2 = "password2"
	FieldPhoto     = "photo"
)

// Messages shown for account fields.
const (
	MsgDuplicateEmail    = "A user with that email already exists."
	MsgDuplicateUsername = "A user with that username already exists."
	MsgUsernameFormat    = "Username can only contain letters, numbers, and underscores."
	MsgPasswordMismatch  = "The two password fields didn’t match."
	MsgPasswordTooShort  = "This password is too short. It must contain at least 8 characters."
	MsgPasswordDigit     = "The password must contain at least one digit."
	MsgPasswordUpper     = "The password must contain at least one uppercase letter."
	MsgPasswordLower     = "The password must contain at least one lowercase letter."
	MsgPasswordSpecial   = "The password must contain at least one special character."
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

type RegistrationForm struct {
	Username  string `json:"username" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

// ProfileForm holds the editable account fields. Nil fields keep their current value.
type ProfileForm struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// accountFields is what a profile edit validates after merging with the stored user.
type accountFields struct {
	Username  string `json:"username" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
}

// RegistrationValidator checks account submissions against the user directory.
// Every field is evaluated and every failure is reported.
type RegistrationValidator struct {
	users repo.Users
}

func NewRegistrationValidator(users repo.Users) *RegistrationValidator {
	return &RegistrationValidator{users: users}
}

// Validate returns the normalized form and its field errors. The error return is
// reserved for store failures.
func (v *RegistrationValidator) Validate(ctx context.Context, f RegistrationForm) (RegistrationForm, validate.Errors, error) {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = normalizeEmail(f.Email)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)

	errs := validate.Struct(f)
	if err := v.checkUniqueness(ctx, errs, f.Username, f.Email, ""); err != nil {
		return f, nil, err
	}
	if !errs.Has(FieldPassword1) && !errs.Has(FieldPassword2) {
		for _, fe := range CheckPassword(f.Password1, f.Password2) {
			errs.Add(FieldPassword2, fe.Code, fe.Msg)
		}
	}
	return f, errs, nil
}

// ValidateProfile merges f over u and validates the result, ignoring u's own
// record in the uniqueness checks. It returns u with the merged values.
func (v *RegistrationValidator) ValidateProfile(ctx context.Context, u models.User, f ProfileForm) (models.User, validate.Errors, error) {
	a := accountFields{Username: u.Username, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
	if f.Username != nil {
		a.Username = strings.TrimSpace(*f.Username)
	}
	if f.Email != nil {
		a.Email = normalizeEmail(*f.Email)
	}
	if f.FirstName != nil {
		a.FirstName = strings.TrimSpace(*f.FirstName)
	}
	if f.LastName != nil {
		a.LastName = strings.TrimSpace(*f.LastName)
	}

	errs := validate.Struct(a)
	if err := v.checkUniqueness(ctx, errs, a.Username, a.Email, u.ID); err != nil {
		return u, nil, err
	}
	u.Username, u.Email, u.FirstName, u.LastName = a.Username, a.Email, a.FirstName, a.LastName
	return u, errs, nil
}

func (v *RegistrationValidator) checkUniqueness(ctx context.Context, errs validate.Errors, username, email, excludeID string) error {
	if username != "" {
		if !ValidUsername(username) {
			errs.Add(FieldUsername, validate.CodeInvalidFormat, MsgUsernameFormat)
		}
		taken, err := v.users.UsernameTaken(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(FieldUsername, validate.CodeDuplicateUsername, MsgDuplicateUsername)
		}
	}
	// a malformed address cannot collide with a stored one
	if email != "" && !errs.Has(FieldEmail) {
		taken, err := v.users.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			errs.Add(FieldEmail, validate.CodeDuplicateEmail, MsgDuplicateEmail)
		}
	}
	return nil
}

// ValidUsername reports whether every character is a letter, digit or underscore.
func ValidUsername(s string) bool { return usernamePattern.MatchString(s) }

// CheckPassword returns every rule the pair violates. A mismatch is reported alone.
func CheckPassword(p1, p2 string) []validate.FieldError {
	if p1 != p2 {
		return []validate.FieldError{{Code: validate.CodeMismatch, Msg: MsgPasswordMismatch}}
	}
	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range p1 {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if strings.ContainsRune(specialChars, r) {
			hasSpecial = true
		}
	}

	var out []validate.FieldError
	if len([]rune(p1)) < MinPasswordLength {
		out = append(out, validate.FieldError{Code: validate.CodeTooShort, Msg: MsgPasswordTooShort})
	}
	if !hasDigit {
		out = append(out, validate.FieldError{Code: validate.CodeMissingDigit, Msg: MsgPasswordDigit})
	}
	if !hasUpper {
		out = append(out, validate.FieldError{Code: validate.CodeMissingUppercase, Msg: MsgPasswordUpper})
	}
	if !hasLower {
		out = append(out, validate.FieldError{Code: validate.CodeMissingLowercase, Msg: MsgPasswordLower})
	}
	if !hasSpecial {
		out = append(out, validate.FieldError{Code: validate.CodeMissingSpecial, Msg: MsgPasswordSpecial})
	}
	return out
}

// normalizeEmail trims the address and lowercases its domain part.
func normalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return s
	}
	return s[:at+1] + strings.ToLower(s[at+1:])
}
