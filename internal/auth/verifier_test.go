package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
)

// profileRepository is an in-memory store.Repository covering the profile
// methods; the transaction methods are unused here.
type profileRepository struct {
	profiles    map[string]*domain.Profile
	credentials map[uuid.UUID]*store.Credential
}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles:    map[string]*domain.Profile{},
		credentials: map[uuid.UUID]*store.Credential{},
	}
}

func (r *profileRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	return nil
}

func (r *profileRepository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return nil, store.ErrTransactionNotFound
}

func (r *profileRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	return nil, nil
}

func (r *profileRepository) ResolveReview(ctx context.Context, id uuid.UUID, verdict domain.ReviewVerdict) (*domain.Transaction, error) {
	return nil, store.ErrTransactionNotFound
}

func (r *profileRepository) ExpireStaleReviews(ctx context.Context, cutoff time.Time, fraudCode, fraudDescription string) ([]domain.Transaction, error) {
	return nil, nil
}

func (r *profileRepository) IsRestrictedKey(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (r *profileRepository) CountRecentBySender(ctx context.Context, senderKey string, since time.Time) (int, error) {
	return 0, nil
}

func (r *profileRepository) HasPriorTransfer(ctx context.Context, senderKey, receiverKey string) (bool, error) {
	return false, nil
}

func (r *profileRepository) FindProfileByTaxID(ctx context.Context, taxID string) (*domain.Profile, error) {
	profile, ok := r.profiles[taxID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return profile, nil
}

func (r *profileRepository) GetCredential(ctx context.Context, profileID uuid.UUID) (*store.Credential, error) {
	credential, ok := r.credentials[profileID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return credential, nil
}

func (r *profileRepository) CountProfiles(ctx context.Context) (int, error) {
	return len(r.profiles), nil
}

func (r *profileRepository) CreateProfile(ctx context.Context, profile *domain.Profile, passwordHash string) error {
	r.profiles[profile.TaxID] = profile
	r.credentials[profile.ID] = &store.Credential{ProfileID: profile.ID, PasswordHash: passwordHash}
	return nil
}

func seededRepository(t *testing.T) *profileRepository {
	t.Helper()
	repo := newProfileRepository()
	err := SeedDemoProfiles(context.Background(), repo, []DemoProfile{
		{
			Profile: domain.Profile{
				ID:          uuid.New(),
				DisplayName: "Maria Silva",
				TaxID:       "123.456.789-00",
				Role:        domain.RoleCustomer,
				PixKey:      domain.PixKey{Type: domain.KeyTypeEmail, Value: "maria.silva@pixhub.com"},
			},
			Password: "pix-demo",
		},
	})
	if err != nil {
		t.Fatalf("SeedDemoProfiles returned error: %v", err)
	}
	return repo
}

func TestLoginIssuesTokenWithRoleClaim(t *testing.T) {
	repo := seededRepository(t)
	verifier := NewVerifier(repo, "test-secret", time.Hour)

	session, err := verifier.Login(context.Background(), domain.LoginRequest{
		TaxID:    "123.456.789-00", // masked input must still match the stored digits
		Password: "pix-demo",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Profile.DisplayName != "Maria Silva" {
		t.Errorf("unexpected profile %+v", session.Profile)
	}

	parsed, err := jwt.Parse(session.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("expected a valid HS256 token, got err=%v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["role"] != string(domain.RoleCustomer) {
		t.Errorf("expected role claim %q, got %v", domain.RoleCustomer, claims["role"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := seededRepository(t)
	verifier := NewVerifier(repo, "test-secret", time.Hour)

	_, err := verifier.Login(context.Background(), domain.LoginRequest{TaxID: "12345678900", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownProfileIndistinguishable(t *testing.T) {
	repo := seededRepository(t)
	verifier := NewVerifier(repo, "test-secret", time.Hour)

	_, err := verifier.Login(context.Background(), domain.LoginRequest{TaxID: "00000000000", Password: "pix-demo"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSeedDemoProfilesIsIdempotent(t *testing.T) {
	repo := seededRepository(t)

	// A second seed run against a populated database is a no-op.
	err := SeedDemoProfiles(context.Background(), repo, []DemoProfile{
		{Profile: domain.Profile{ID: uuid.New(), TaxID: "55544433322", Role: domain.RoleAnalyst}, Password: "other"},
	})
	if err != nil {
		t.Fatalf("SeedDemoProfiles returned error: %v", err)
	}
	if len(repo.profiles) != 1 {
		t.Errorf("expected the existing profiles to be left alone, got %d", len(repo.profiles))
	}
}

func TestNormalizeTaxID(t *testing.T) {
	if got := normalizeTaxID(" 123.456.789-00 "); got != "12345678900" {
		t.Errorf("normalizeTaxID = %q, expected 12345678900", got)
	}
}
