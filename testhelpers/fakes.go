package testhelpers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"schedulepro/internal/models"
	"schedulepro/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignToken issues an HS256 access token the way the identity provider does.
func SignToken(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := models.AccessClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// FakeIdentity is an in-memory identity provider issuing real HS256 tokens.
type FakeIdentity struct {
	mu         sync.Mutex
	secret     string
	users      map[string]fakeAccount
	SignedOut  []string
	SignOutErr error
}

type fakeAccount struct {
	id       uuid.UUID
	password string
}

func NewFakeIdentity(secret string) *FakeIdentity {
	return &FakeIdentity{secret: secret, users: make(map[string]fakeAccount)}
}

var _ services.IdentityProvider = (*FakeIdentity)(nil)

func (f *FakeIdentity) session(id uuid.UUID, email string) (*models.AuthUser, *models.AuthSession, error) {
	token, err := SignToken(f.secret, id, email, time.Hour)
	if err != nil {
		return nil, nil, err
	}
	return &models.AuthUser{ID: id, Email: email}, &models.AuthSession{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		TokenType:    "bearer",
		ExpiresIn:    3600,
	}, nil
}

func (f *FakeIdentity) SignUp(_ context.Context, email, password string, _ map[string]any) (*models.AuthUser, *models.AuthSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[email]; exists {
		return nil, nil, &services.ProviderError{StatusCode: http.StatusUnprocessableEntity, Message: "User already registered"}
	}
	account := fakeAccount{id: uuid.New(), password: password}
	f.users[email] = account
	return f.session(account.id, email)
}

func (f *FakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*models.AuthUser, *models.AuthSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.users[email]
	if !ok || account.password != password {
		return nil, nil, &services.ProviderError{StatusCode: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	return f.session(account.id, email)
}

func (f *FakeIdentity) SignOut(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.SignedOut = append(f.SignedOut, accessToken)
	return nil
}

// FakeCache is an in-memory caching.CacheService. TTLs are ignored.
type FakeCache struct {
	mu         sync.Mutex
	principals map[uuid.UUID]models.Principal
	revoked    map[string]bool
	PingErr    error
}

func NewFakeCache() *FakeCache {
	return &FakeCache{
		principals: make(map[uuid.UUID]models.Principal),
		revoked:    make(map[string]bool),
	}
}

func tokenHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (f *FakeCache) GetPrincipal(_ context.Context, userID uuid.UUID) (*models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.principals[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *FakeCache) SetPrincipal(_ context.Context, principal *models.Principal, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.principals[principal.UserID] = *principal
	return nil
}

func (f *FakeCache) DeletePrincipal(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.principals, userID)
	return nil
}

func (f *FakeCache) RevokeToken(_ context.Context, rawToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenHash(rawToken)] = true
	return nil
}

func (f *FakeCache) IsTokenRevoked(_ context.Context, rawToken string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[tokenHash(rawToken)], nil
}

func (f *FakeCache) Ping(context.Context) error { return f.PingErr }

func (f *FakeCache) Close() error { return nil }

// FakeStorage keeps uploaded objects in memory.
type FakeStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: make(map[string][]byte)}
}

func (f *FakeStorage) Upload(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[bucketName+"/"+objectName] = data
	return nil
}

func (f *FakeStorage) GetPresignedURL(_ context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s/%s?expires=%d", bucketName, objectName, int(expiry.Seconds())), nil
}

func (f *FakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

// Object returns an uploaded object, if present.
func (f *FakeStorage) Object(bucketName, objectName string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Objects[bucketName+"/"+objectName]
	return data, ok
}
