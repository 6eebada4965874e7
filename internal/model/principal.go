package model

// Principal kinds.
const (
	PrincipalStaff    = "staff"
	PrincipalCustomer = "customer"
)

// Principal is an authenticated actor embedded in a session token.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	Wallet   string `json:"wallet,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
}

// IsStaff reports whether p is the staff account.
func (p Principal) IsStaff() bool { return p.Type == PrincipalStaff }
