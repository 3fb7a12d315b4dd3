/**
 * @description
 * Identity models for pixhub. A Profile is a registered account holder with a
 * single PIX key; a Role decides which home screen a session lands on and which
 * API routes the session token may call.
 */

package domain

import "github.com/google/uuid"

// Role tags a profile as either a paying customer or a fraud analyst.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAnalyst  Role = "analyst"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAnalyst
}

// Profile is a registered account holder. Maps to the `profiles` table.
// The password hash never leaves the server.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	TaxID       string    `json:"taxId"`
	Role        Role      `json:"role"`
	PixKey      PixKey    `json:"pixKey"`
}

// LoginRequest is the DTO for POST /sessions. Credentials are verified against
// the stored bcrypt hash; there is no role-only shortcut.
type LoginRequest struct {
	TaxID    string `json:"taxId"`
	Password string `json:"password"`
}

// Session is the successful response of POST /sessions: the verified identity
// plus a bearer token for the protected routes.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}
