package forms

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	TokenLength       = 32
	MinSponsorAmount  = 10
)

// Messages shown next to a failing field.
const (
	MsgUsernameChars     = "Usernames can only contain alphanumeric characters and underscores only."
	MsgUsernameUnchecked = "Username can't be checked."
	MsgUsernameTaken     = "Username is already taken."
	MsgEmailUnchecked    = "Email address can't be checked."
	MsgEmailTaken        = "Email address is already taken."
	MsgEmailInvalid      = "Please enter a valid email address."
	MsgPasswordShort     = "Password must be at least 8 characters."
	MsgVerifyMismatch    = "Passwords must match."
	MsgTokenInvalid      = "Token is invalid."
	MsgAmountInvalid     = "Please enter a valid amount."
	MsgSponsorMinimum    = "Sponsorship amount must be at least 10."
)

// Validity classes consumed by the page styling.
const (
	ClassSuccess = "has-success"
	ClassError   = "has-error"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
	// longest numeric prefix accepted by a lenient float parse
	amountPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
)

// Result of one field check. Message is empty for valid or empty fields.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func fail(msg string) Result {
	return Result{Message: msg}
}

var passed = Result{Valid: true}

/**
 * Check a username against the pattern and the availability cache
 * @param {string} username - User input
 * @param {*AvailabilityCache} cache - Session cache of checked usernames
 * @returns {Result} Invalid without message when empty
 * @description
 * - Pattern failure wins over cache state
 * - Not cached: "can't be checked"; cached unavailable: "already taken"
 */
func CheckUsername(username string, cache *AvailabilityCache) Result {
	if username == "" {
		return Result{}
	}
	if !usernamePattern.MatchString(username) {
		return fail(MsgUsernameChars)
	}
	available, cached := cache.Username(username)
	switch {
	case !cached:
		return fail(MsgUsernameUnchecked)
	case !available:
		return fail(MsgUsernameTaken)
	}
	return passed
}

// CheckAccountEmail checks an email that must also be free to register.
func CheckAccountEmail(email string, cache *AvailabilityCache) Result {
	if email == "" {
		return Result{}
	}
	available, cached := cache.Email(email)
	switch {
	case !cached:
		return fail(MsgEmailUnchecked)
	case !available:
		return fail(MsgEmailTaken)
	}
	return CheckEmail(email)
}

// CheckEmail applies the address pattern only.
func CheckEmail(email string) Result {
	if email == "" {
		return Result{}
	}
	if !emailPattern.MatchString(email) {
		return fail(MsgEmailInvalid)
	}
	return passed
}

func CheckPassword(password string) Result {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fail(MsgPasswordShort)
	}
	return passed
}

// CheckVerify compares the confirmation with the password exactly.
func CheckVerify(password, verify string) Result {
	if verify != password {
		return fail(MsgVerifyMismatch)
	}
	return passed
}

func CheckToken(token string) Result {
	if utf8.RuneCountInString(token) != TokenLength {
		return fail(MsgTokenInvalid)
	}
	return passed
}

/**
 * Parse the leading number of an amount
 * @param {string} amount - User input such as "25", " 12.50 USD" or "1e2"
 * @returns {float64} Parsed value
 * @returns {bool} False when the input has no numeric prefix
 */
func ParseAmount(amount string) (float64, bool) {
	s := strings.TrimLeft(amount, " \t\n\r\v\f")
	prefix := amountPrefix.FindString(s)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	// out of range yields ±Inf or 0
	return v, true
}

func CheckDonationAmount(amount string) Result {
	if amount == "" {
		return Result{}
	}
	v, parsed := ParseAmount(amount)
	if !parsed || v <= 0 {
		return fail(MsgAmountInvalid)
	}
	return passed
}

func CheckSponsorAmount(amount string) Result {
	if amount == "" {
		return Result{}
	}
	v, parsed := ParseAmount(amount)
	if !parsed {
		return fail(MsgAmountInvalid)
	}
	if v < MinSponsorAmount {
		return fail(MsgSponsorMinimum)
	}
	return passed
}

// IsState reports whether a non-empty field's validity equals state.
func IsState(value string, r Result, state bool) bool {
	return value != "" && r.Valid == state
}

// Validity returns the styling class for a field, empty while the field is blank.
func Validity(value string, r Result) string {
	if value == "" {
		return ""
	}
	if r.Valid {
		return ClassSuccess
	}
	return ClassError
}
