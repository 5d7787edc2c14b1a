package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"schedulepro/internal/caching"
	"schedulepro/internal/common"
	"schedulepro/internal/models"
	"schedulepro/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MsgNoToken      = "No token provided. Please login."
	MsgInvalidToken = "Invalid or expired token. Please login again."
	msgAuthFailed   = "Authentication failed"

	tokenContextKey = "user"
)

// KeySource resolves the verification key of incoming access tokens.
type KeySource struct {
	Keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

// NewKeySource uses the provider's JWKS endpoint when jwksURL is set and the
// shared HS256 secret otherwise.
func NewKeySource(jwksURL, secret string, logger *zap.Logger) (*KeySource, error) {
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("failed to refresh JWKS", zap.String("url", jwksURL), zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("fetch JWKS: %w", err)
		}
		return &KeySource{Keyfunc: jwks.Keyfunc, jwks: jwks}, nil
	}

	if secret == "" {
		return nil, errors.New("either a JWKS URL or a JWT secret is required")
	}
	key := []byte(secret)
	return &KeySource{Keyfunc: func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return key, nil
	}}, nil
}

// Close stops the background JWKS refresh, if any.
func (k *KeySource) Close() {
	if k.jwks != nil {
		k.jwks.EndBackground()
	}
}

// AuthGate verifies bearer tokens and attaches the caller's principal to the request.
type AuthGate struct {
	keys     *KeySource
	cache    caching.CacheService
	resolver services.PrincipalResolver
	logger   *zap.Logger
}

func NewAuthGate(keys *KeySource, cache caching.CacheService, resolver services.PrincipalResolver, logger *zap.Logger) *AuthGate {
	return &AuthGate{
		keys:     keys,
		cache:    cache,
		resolver: resolver,
		logger:   logger,
	}
}

// Middleware chains token verification and principal resolution.
func (g *AuthGate) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		KeyFunc:    g.keys.Keyfunc,
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(models.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if !hasBearer(c.Request()) {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(g.attachPrincipal(next))
	}
}

func hasBearer(r *http.Request) bool {
	header := r.Header.Get(echo.HeaderAuthorization)
	return strings.HasPrefix(header, "Bearer ") && strings.TrimSpace(header[len("Bearer "):]) != ""
}

func (g *AuthGate) attachPrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		}
		claims, ok := token.Claims.(*models.AccessClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		}

		ctx := c.Request().Context()
		revoked, err := g.cache.IsTokenRevoked(ctx, token.Raw)
		if err != nil {
			g.logger.Warn("token revocation check failed", zap.Error(err))
		}
		if revoked {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		}

		principal, err := g.resolver.Resolve(ctx, userID, claims.Email)
		if err != nil {
			g.logger.Error("failed to resolve principal", zap.String("user_id", userID.String()), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, msgAuthFailed)
		}

		accessToken := common.AccessToken{Raw: token.Raw}
		if claims.ExpiresAt != nil {
			accessToken.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx = common.WithPrincipal(ctx, principal)
		ctx = common.WithAccessToken(ctx, accessToken)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
