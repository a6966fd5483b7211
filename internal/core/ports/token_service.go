package ports

// Claims is the identity embedded in a signed token. It is the only thing the
// authorization gate trusts; nothing else in a request identifies the caller.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	RoleID int    `json:"roleId"`
	Name   string `json:"name"`
}

// TokenService issues and verifies signed, time-limited identity tokens.
// Verify reports every failure mode as domain.ErrInvalidToken; callers cannot
// distinguish malformed from expired from tampered.
type TokenService interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (*Claims, error)
}
