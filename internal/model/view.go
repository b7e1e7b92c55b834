package model

// ViewLevel selects how much of an account a response exposes.
// Handlers parse it from the "profile" query parameter.
type ViewLevel string

const (
	// ViewBasic exposes only what another user may see of a profile.
	ViewBasic ViewLevel = "basic"
	// ViewFull exposes the complete profile including email. Used for the
	// account owner's own requests; the default when no level is given.
	ViewFull ViewLevel = "full"
)

// ParseViewLevel maps a query-parameter value to a ViewLevel.
// Unknown or empty values fall back to ViewFull.
func ParseViewLevel(s string) ViewLevel {
	if s == string(ViewBasic) {
		return ViewBasic
	}
	return ViewFull
}

// AccountView is the JSON projection of an Account. Credential material is
// never included; hasPassword is the only thing clients learn about it.
type AccountView struct {
	ID             string  `json:"id"`
	Email          *string `json:"email,omitempty"`
	Profile        Profile `json:"profile"`
	HasPassword    bool    `json:"hasPassword"`
	FacebookLinked bool    `json:"facebookLinked"`
}

// View projects the account according to the given detail level.
func (a *Account) View(level ViewLevel) AccountView {
	v := AccountView{
		ID:          a.ID,
		HasPassword: a.HasPassword(),
	}

	switch level {
	case ViewBasic:
		v.Profile = Profile{
			FirstName: a.Profile.FirstName,
			Photo:     a.Profile.Photo,
		}
	default:
		v.Email = a.Email
		v.Profile = a.Profile
		v.FacebookLinked = a.FacebookLinked()
	}

	return v
}
