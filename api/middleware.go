package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sparkup/sparkup-api/databases"
	"github.com/sparkup/sparkup-api/models"
)

// tokenCacheTTL bounds how long a verified token is trusted without re-parsing it
const tokenCacheTTL = 5 * time.Minute

const expiresExtension = "exp"

// MiddlewareDB is a struct that holds the database
type MiddlewareDB struct {
	DB     databases.UserDatabase
	Tokens *TokenIssuer
}

var authenticator auth.Authenticator
var basicAuthenticator auth.Authenticator

// Middleware authenticates the bearer token on the request and puts the caller's user
// id on the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if isUpgrade(r) && r.Header.Get("Authorization") == "" {
			// browsers cannot set headers on a websocket handshake
			if token := r.URL.Query().Get("token"); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		user, err := authenticate(r)
		if err != nil {
			zap.S().Infow("unauthorized",
				"url", r.URL.Path,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"response": "unauthorized"}`))
			return
		}
		zap.S().Debugw("user authenticated", "userId", user.ID())
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), user.ID())))
	})
}

func authenticate(r *http.Request) (auth.Info, error) {
	if authenticator == nil {
		return nil, errors.New("authenticator is not configured")
	}
	user, err := authenticator.Authenticate(r)
	if err != nil {
		return nil, err
	}
	// cached entries can outlive the token they came from
	if exp := user.Extensions()[expiresExtension]; len(exp) == 1 {
		unix, err := strconv.ParseInt(exp[0], 10, 64)
		if err != nil || time.Now().Unix() >= unix {
			return nil, errors.New("token expired")
		}
	}
	return user, nil
}

// CreateToken exchanges HTTP basic credentials (email and password) for a signed access token
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, _, ok := r.BasicAuth(); !ok || basicAuthenticator == nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"response": "basic auth required"}`))
		return
	}
	user, err := basicAuthenticator.Authenticate(r)
	if err != nil {
		zap.S().Infow("token request rejected", "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"response": "invalid credentials"}`))
		return
	}

	token, exp, err := m.Tokens.Issue(user.ID(), user.UserName())
	if err != nil {
		zap.S().Errorw("failed to issue token", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"response": "failed to issue token"}`))
		return
	}

	WriteJSON(w, http.StatusOK, models.Token{Token: token, UserID: user.ID(), ExpiresAt: exp})
}

// SetupGoGuardian sets up the go-guardian authenticators: basic credentials for token
// issuance and bearer JWTs for everything else
func (m MiddlewareDB) SetupGoGuardian() {
	basicCache := store.NewFIFO(context.Background(), tokenCacheTTL)
	basicAuthenticator = auth.New()
	basicAuthenticator.EnableStrategy(basic.StrategyKey, basic.New(m.ValidateUser, basicCache))

	tokenCache := store.NewFIFO(context.Background(), tokenCacheTTL)
	authenticator = auth.New()
	authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(m.ValidateToken, tokenCache))
}

// ValidateUser checks an email and password pair against the stored bcrypt hash
func (m MiddlewareDB) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	qctx, cancel := WithQueryTimeout(ctx)
	defer cancel()

	user, err := m.DB.FindOne(qctx, bson.M{"user.email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return nil, fmt.Errorf("no matching email found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Details.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return auth.NewDefaultUser(user.Details.Email, user.ID.Hex(), nil, nil), nil
}

// ValidateToken verifies a bearer JWT and returns the user it was issued to
func (m MiddlewareDB) ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	claims, err := m.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	ext := map[string][]string{
		expiresExtension: {strconv.FormatInt(claims.ExpiresAt.Unix(), 10)},
	}
	return auth.NewDefaultUser(claims.Email, claims.Subject, nil, ext), nil
}
