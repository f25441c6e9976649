package models

// StatusUnavailable marks a username or email as already registered.
const StatusUnavailable = 1

// ProfileKeyStatus is one availability answer from the profile status API.
type ProfileKeyStatus struct {
	Key    string `json:"key"`
	Status int    `json:"status"`
}

// Available reports whether the key may still be registered.
func (s ProfileKeyStatus) Available() bool {
	return s.Status != StatusUnavailable
}

/**
 * Response of POST /profile/status (or GET /profile/{username}/status)
 * @property {*ProfileKeyStatus} username - Present when a name was checked
 * @property {*ProfileKeyStatus} email - Present when an email was checked
 */
type ProfileStatus struct {
	Username *ProfileKeyStatus `json:"username,omitempty"`
	Email    *ProfileKeyStatus `json:"email,omitempty"`
}
