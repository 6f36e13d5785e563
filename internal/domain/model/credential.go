package model

// CredentialType selects how a remote client authenticates.
type CredentialType string

const (
	// CredentialToken sends a personal access token as a bearer token.
	CredentialToken CredentialType = "token"
	// CredentialOAuth sends an OAuth access token as a bearer token.
	CredentialOAuth CredentialType = "oauth"
	// CredentialBasic sends a username and password with HTTP basic auth.
	CredentialBasic CredentialType = "basic"
)

// Credentials authenticate a single remote call. Token is used by the token and
// oauth types; Username and Password by the basic type.
type Credentials struct {
	Type     CredentialType
	Token    string
	Username string
	Password string
}

// Properties are the optional per-call settings passed to every facade method.
// A nil *Properties, or one without Credentials, means anonymous access.
type Properties struct {
	Credentials *Credentials
}

// Anonymous reports whether p carries no credentials.
func (p *Properties) Anonymous() bool {
	return p == nil || p.Credentials == nil
}
