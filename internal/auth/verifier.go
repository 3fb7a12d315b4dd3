/**
 * @description
 * Credential verification and session token issuance. Login is a real check
 * against a stored bcrypt hash returning a typed identity-or-failure result;
 * the UI never decides who it is talking to.
 *
 * @dependencies
 * - golang.org/x/crypto/bcrypt: Password hash comparison.
 * - github.com/golang-jwt/jwt/v5: HS256 session tokens carrying the role claim.
 */

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid tax id or password")

// Verifier checks credentials and issues session tokens.
type Verifier struct {
	repo     store.Repository
	secret   []byte
	tokenTTL time.Duration
}

// NewVerifier creates a Verifier signing tokens with the given HS256 secret.
func NewVerifier(repo store.Repository, secret string, tokenTTL time.Duration) *Verifier {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &Verifier{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL}
}

// normalizeTaxID strips the formatting punctuation a masked CPF input carries.
func normalizeTaxID(taxID string) string {
	replacer := strings.NewReplacer(".", "", "-", "", "(", "", ")", "", " ", "")
	return replacer.Replace(strings.TrimSpace(taxID))
}

// Login verifies the credentials and returns a session with a bearer token.
// A missing profile and a wrong password are indistinguishable to the caller.
func (v *Verifier) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	profile, err := v.repo.FindProfileByTaxID(ctx, normalizeTaxID(req.TaxID))
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}

	credential, err := v.repo.GetCredential(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := v.issueToken(profile)
	if err != nil {
		return nil, fmt.Errorf("token issuance failed: %w", err)
	}

	return &domain.Session{Token: token, Profile: *profile}, nil
}

func (v *Verifier) issueToken(profile *domain.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  profile.ID.String(),
		"role": string(profile.Role),
		"name": profile.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(v.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// DemoProfile describes one profile the seeder provisions on a fresh database.
type DemoProfile struct {
	Profile  domain.Profile
	Password string
}

// SeedDemoProfiles provisions the demo identities when the profiles table is
// empty. Passwords come from configuration, never from source.
func SeedDemoProfiles(ctx context.Context, repo store.Repository, profiles []DemoProfile) error {
	count, err := repo.CountProfiles(ctx)
	if err != nil {
		return fmt.Errorf("profile count failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, demo := range profiles {
		hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("password hash failed for %s: %w", demo.Profile.TaxID, err)
		}
		profile := demo.Profile
		profile.TaxID = normalizeTaxID(profile.TaxID)
		if err := repo.CreateProfile(ctx, &profile, string(hash)); err != nil {
			return fmt.Errorf("profile seed failed for %s: %w", profile.TaxID, err)
		}
	}
	return nil
}
