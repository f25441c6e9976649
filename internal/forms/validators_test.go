package forms

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckUsername(t *testing.T) {
	cache := NewAvailabilityCache()
	cache.SetUsername("abc_123", true)
	cache.SetUsername("firnsy", false)

	cases := []struct {
		in   string
		want Result
	}{
		{"", Result{}},
		{"ab cd", Result{Message: MsgUsernameChars}},
		{"ab-cd", Result{Message: MsgUsernameChars}},
		{"abc_123", Result{Valid: true}},
		{"abc_1234", Result{Message: MsgUsernameUnchecked}},
		{"firnsy", Result{Message: MsgUsernameTaken}},
	}
	for _, tc := range cases {
		if got := CheckUsername(tc.in, cache); got != tc.want {
			t.Errorf("CheckUsername(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestCheckEmail(t *testing.T) {
	valid := []string{"user@example.org", "first.last@sub.example.co", `"odd user"@example.org`, "a@[10.0.0.1]"}
	invalid := []string{"user", "user@", "user@localhost", "us er@example.org", "user@@example.org", "user@example.o"}

	for _, e := range valid {
		if r := CheckEmail(e); !r.Valid {
			t.Errorf("CheckEmail(%q) rejected: %s", e, r.Message)
		}
	}
	for _, e := range invalid {
		if r := CheckEmail(e); r.Valid || r.Message != MsgEmailInvalid {
			t.Errorf("CheckEmail(%q) = %+v, want invalid", e, r)
		}
	}
	if r := CheckEmail(""); r.Valid || r.Message != "" {
		t.Errorf("CheckEmail(\"\") = %+v", r)
	}
}

func TestCheckAccountEmail(t *testing.T) {
	cache := NewAvailabilityCache()
	cache.SetEmail("free@example.org", true)
	cache.SetEmail("taken@example.org", false)
	cache.SetEmail("bogus", true)

	cases := map[string]string{
		"free@example.org":  "",
		"taken@example.org": MsgEmailTaken,
		"new@example.org":   MsgEmailUnchecked,
		"bogus":             MsgEmailInvalid,
	}
	for in, msg := range cases {
		r := CheckAccountEmail(in, cache)
		if r.Valid != (msg == "") || r.Message != msg {
			t.Errorf("CheckAccountEmail(%q) = %+v, want message %q", in, r, msg)
		}
	}
}

func TestPasswordAndVerify(t *testing.T) {
	if CheckPassword(strings.Repeat("x", 7)).Valid {
		t.Error("7 character password accepted")
	}
	if !CheckPassword(strings.Repeat("x", 8)).Valid {
		t.Error("8 character password rejected")
	}
	if r := CheckVerify("password1", "password2"); r.Valid || r.Message != MsgVerifyMismatch {
		t.Errorf("CheckVerify mismatch = %+v", r)
	}
	if !CheckVerify("password1", "password1").Valid {
		t.Error("CheckVerify rejected matching passwords")
	}
}

func TestCheckToken(t *testing.T) {
	if !CheckToken(strings.Repeat("a", 32)).Valid {
		t.Error("32 character token rejected")
	}
	for _, n := range []int{0, 31, 33} {
		if r := CheckToken(strings.Repeat("a", n)); r.Valid || r.Message != MsgTokenInvalid {
			t.Errorf("token of length %d = %+v", n, r)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in     string
		want   float64
		parsed bool
	}{
		{"25", 25, true},
		{" 12.50 USD", 12.5, true},
		{"1e2", 100, true},
		{"1e", 1, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"-3", -3, true},
		{"10abc", 10, true},
		{"abc", 0, false},
		{"$10", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, parsed := ParseAmount(tc.in)
		if parsed != tc.parsed || got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v, %v", tc.in, got, parsed, tc.want, tc.parsed)
		}
	}
	if v, parsed := ParseAmount("Infinity"); !parsed || !math.IsInf(v, 1) {
		t.Errorf("ParseAmount(Infinity) = %v, %v", v, parsed)
	}
}

func TestAmounts(t *testing.T) {
	donation := map[string]bool{"": false, "0": false, "-5": false, "0.01": true, "abc": false, "5 dollars": true}
	for in, want := range donation {
		if got := CheckDonationAmount(in).Valid; got != want {
			t.Errorf("CheckDonationAmount(%q) = %v, want %v", in, got, want)
		}
	}
	sponsor := map[string]bool{"": false, "9.99": false, "10": true, "250": true, "ten": false}
	for in, want := range sponsor {
		if got := CheckSponsorAmount(in).Valid; got != want {
			t.Errorf("CheckSponsorAmount(%q) = %v, want %v", in, got, want)
		}
	}
	if r := CheckSponsorAmount("5"); r.Message != MsgSponsorMinimum {
		t.Errorf("CheckSponsorAmount(5) message = %q", r.Message)
	}
}

func TestIsStateAndValidity(t *testing.T) {
	good, bad := Result{Valid: true}, Result{Message: "x"}
	cases := []struct {
		value   string
		r       Result
		success bool
		failure bool
		class   string
	}{
		{"", bad, false, false, ""},
		{"", good, false, false, ""},
		{"v", good, true, false, ClassSuccess},
		{"v", bad, false, true, ClassError},
	}
	for _, tc := range cases {
		if IsState(tc.value, tc.r, true) != tc.success || IsState(tc.value, tc.r, false) != tc.failure {
			t.Errorf("IsState(%q, %+v) mismatch", tc.value, tc.r)
		}
		if got := Validity(tc.value, tc.r); got != tc.class {
			t.Errorf("Validity(%q, %+v) = %q, want %q", tc.value, tc.r, got, tc.class)
		}
	}
}

func TestRegistrationForm(t *testing.T) {
	cache := NewAvailabilityCache()
	f := RegistrationForm{Username: "abc_123", Email: "abc@example.org", Password: "hunter22", Verify: "hunter22"}

	report := f.Evaluate(cache)
	if report.Actions["register"] {
		t.Fatal("registration allowed before lookup")
	}
	// unchecked fields are unstyled
	if diff := cmp.Diff(FieldState{Message: MsgUsernameUnchecked}, report.Fields["username"]); diff != "" {
		t.Errorf("username state mismatch (-want +got):\n%s", diff)
	}

	cache.SetUsername("abc_123", true)
	cache.SetEmail("abc@example.org", true)
	report = f.Evaluate(cache)
	if !report.Actions["register"] || !f.CanRegister(cache) {
		t.Fatalf("registration not allowed: %+v", report)
	}
	want := FieldState{Valid: true, Success: true, Class: ClassSuccess}
	for _, name := range []string{"username", "email", "password", "verify"} {
		if diff := cmp.Diff(want, report.Fields[name]); diff != "" {
			t.Errorf("%s state mismatch (-want +got):\n%s", name, diff)
		}
	}

	f.Verify = "hunter23"
	if f.CanRegister(cache) {
		t.Error("registration allowed with mismatched verify")
	}
	if got := f.Evaluate(cache).Fields["verify"]; got.Class != ClassError || got.Message != MsgVerifyMismatch {
		t.Errorf("verify state = %+v", got)
	}
}

func TestActivationForm(t *testing.T) {
	cache := NewAvailabilityCache()
	f := ActivationForm{Token: strings.Repeat("0", 32), Username: "taken"}
	cache.SetUsername("taken", false)

	if !f.CanActivateEmail() {
		t.Error("valid token rejected")
	}
	if f.CanActivateOAuth(cache) {
		t.Error("taken username accepted")
	}
	report := f.Evaluate(cache)
	if got := report.Fields["username"]; !got.Error || got.Message != MsgUsernameTaken {
		t.Errorf("username state = %+v", got)
	}
	if !report.Actions["activate_email"] || report.Actions["activate_oauth"] {
		t.Errorf("actions = %v", report.Actions)
	}
}

func TestPaymentForms(t *testing.T) {
	d := DonationForm{Email: "donor@example.org", Amount: "5"}
	if !d.CanDonate() {
		t.Error("valid donation rejected")
	}
	s := SponsorshipForm{Email: "sponsor@example.org", Amount: "5"}
	if s.CanSponsor() {
		t.Error("sponsorship below the minimum accepted")
	}
	r := s.Evaluate(nil)
	if r.Fields["amount"].Class != ClassError || r.Fields["email"].Class != ClassSuccess {
		t.Errorf("sponsor fields = %+v", r.Fields)
	}
	if got := (PasswordResetForm{Password: "short", Verify: "short"}).CanResetPassword(); got {
		t.Error("short password reset accepted")
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"activate", "register", "password-reset", "donate", "sponsor"} {
		f := New(name)
		if f == nil || f.Name() != name {
			t.Errorf("New(%q) = %v", name, f)
		}
	}
	if New("unknown") != nil {
		t.Error("New(unknown) returned a form")
	}
}
