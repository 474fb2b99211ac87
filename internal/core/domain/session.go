package domain

// Session is the sanitized, server-persisted proof of an authenticated
// identity. It never carries password material: it is built exclusively
// from User.Sanitized().
type Session struct {
	// ID is the session identifier (the token's jti claim). It keys the
	// server-side session record.
	ID string `json:"id"`
	// Token is the signed bearer token handed to the client.
	Token string `json:"token"`
	// User is the sanitized identity the session was issued for.
	User User `json:"user"`
}
