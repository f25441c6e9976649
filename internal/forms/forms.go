package forms

/**
 * Evaluated state of one form field
 * @property {bool} valid - Validity predicate
 * @property {string} message - Message for the failing branch
 * @property {bool} success - Field is in the "valid" styling state
 * @property {bool} error - Field is in the "invalid" styling state
 * @property {string} class - has-success, has-error or empty
 */
type FieldState struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
	Error   bool   `json:"error"`
	Class   string `json:"class"`
}

// Report is the evaluation of a whole form: per-field state plus the allowed submit actions.
type Report struct {
	Form    string                `json:"form"`
	Fields  map[string]FieldState `json:"fields"`
	Actions map[string]bool       `json:"actions"`
}

// Form is implemented by every submit form on the site.
type Form interface {
	Name() string
	Evaluate(cache *AvailabilityCache) Report
}

// field builds a FieldState. checked is false for cache backed fields missing from the cache,
// which then stay unstyled.
func field(value string, r Result, checked bool) FieldState {
	fs := FieldState{Valid: r.Valid, Message: r.Message}
	if checked {
		fs.Success = IsState(value, r, true)
		fs.Error = IsState(value, r, false)
	}
	switch {
	case fs.Success:
		fs.Class = ClassSuccess
	case fs.Error:
		fs.Class = ClassError
	}
	return fs
}

/**
 * Account activation, by emailed token or by choosing a username after an OAuth login
 */
type ActivationForm struct {
	Token    string `json:"token" form:"token"`
	Username string `json:"username" form:"username"`
}

func (f ActivationForm) Name() string { return "activate" }

// CanActivateEmail requires a well formed token.
func (f ActivationForm) CanActivateEmail() bool {
	return CheckToken(f.Token).Valid
}

// CanActivateOAuth requires an available, server checked username.
func (f ActivationForm) CanActivateOAuth(cache *AvailabilityCache) bool {
	return CheckUsername(f.Username, cache).Valid
}

func (f ActivationForm) Evaluate(cache *AvailabilityCache) Report {
	return Report{
		Form: f.Name(),
		Fields: map[string]FieldState{
			"token":    field(f.Token, CheckToken(f.Token), true),
			"username": field(f.Username, CheckUsername(f.Username, cache), cache.HasUsername(f.Username)),
		},
		Actions: map[string]bool{
			"activate_email": f.CanActivateEmail(),
			"activate_oauth": f.CanActivateOAuth(cache),
		},
	}
}

type RegistrationForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Verify   string `json:"verify" form:"verify"`
}

func (f RegistrationForm) Name() string { return "register" }

/**
 * Whether the registration may be submitted
 * @param {*AvailabilityCache} cache - Session availability cache
 * @returns {bool} Username and email available, password long enough and confirmed
 */
func (f RegistrationForm) CanRegister(cache *AvailabilityCache) bool {
	return CheckUsername(f.Username, cache).Valid &&
		CheckAccountEmail(f.Email, cache).Valid &&
		CheckPassword(f.Password).Valid &&
		CheckVerify(f.Password, f.Verify).Valid
}

func (f RegistrationForm) Evaluate(cache *AvailabilityCache) Report {
	return Report{
		Form: f.Name(),
		Fields: map[string]FieldState{
			"username": field(f.Username, CheckUsername(f.Username, cache), cache.HasUsername(f.Username)),
			"email":    field(f.Email, CheckAccountEmail(f.Email, cache), cache.HasEmail(f.Email)),
			"password": field(f.Password, CheckPassword(f.Password), true),
			"verify":   field(f.Verify, CheckVerify(f.Password, f.Verify), true),
		},
		Actions: map[string]bool{"register": f.CanRegister(cache)},
	}
}

type PasswordResetForm struct {
	Password string `json:"password" form:"password"`
	Verify   string `json:"verify" form:"verify"`
}

func (f PasswordResetForm) Name() string { return "password-reset" }

func (f PasswordResetForm) CanResetPassword() bool {
	return CheckPassword(f.Password).Valid && CheckVerify(f.Password, f.Verify).Valid
}

func (f PasswordResetForm) Evaluate(_ *AvailabilityCache) Report {
	return Report{
		Form: f.Name(),
		Fields: map[string]FieldState{
			"password": field(f.Password, CheckPassword(f.Password), true),
			"verify":   field(f.Verify, CheckVerify(f.Password, f.Verify), true),
		},
		Actions: map[string]bool{"reset": f.CanResetPassword()},
	}
}

// DonationForm is a one-off donation; the amount is free text.
type DonationForm struct {
	Donor  string `json:"name" form:"name"`
	Email  string `json:"email" form:"email"`
	Amount string `json:"amount" form:"amount"`
}

func (f DonationForm) Name() string { return "donate" }

func (f DonationForm) CanDonate() bool {
	return CheckEmail(f.Email).Valid && CheckDonationAmount(f.Amount).Valid
}

func (f DonationForm) Evaluate(_ *AvailabilityCache) Report {
	return Report{
		Form: f.Name(),
		Fields: map[string]FieldState{
			"email":  field(f.Email, CheckEmail(f.Email), true),
			"amount": field(f.Amount, CheckDonationAmount(f.Amount), true),
		},
		Actions: map[string]bool{"donate": f.CanDonate()},
	}
}

// SponsorshipForm is a recurring sponsorship with a minimum amount.
type SponsorshipForm struct {
	Sponsor string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Amount  string `json:"amount" form:"amount"`
}

func (f SponsorshipForm) Name() string { return "sponsor" }

func (f SponsorshipForm) CanSponsor() bool {
	return CheckEmail(f.Email).Valid && CheckSponsorAmount(f.Amount).Valid
}

func (f SponsorshipForm) Evaluate(_ *AvailabilityCache) Report {
	return Report{
		Form: f.Name(),
		Fields: map[string]FieldState{
			"email":  field(f.Email, CheckEmail(f.Email), true),
			"amount": field(f.Amount, CheckSponsorAmount(f.Amount), true),
		},
		Actions: map[string]bool{"sponsor": f.CanSponsor()},
	}
}

// New returns an empty form for a route name, nil when unknown.
func New(name string) Form {
	switch name {
	case "activate":
		return &ActivationForm{}
	case "register":
		return &RegistrationForm{}
	case "password-reset":
		return &PasswordResetForm{}
	case "donate":
		return &DonationForm{}
	case "sponsor":
		return &SponsorshipForm{}
	}
	return nil
}
