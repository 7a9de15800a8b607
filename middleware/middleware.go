package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"wastewise/globals"
	"wastewise/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// JWT claims
type Claims struct {
	UserID string   `json:"userId"`
	Role   []string `json:"role"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Auth struct {
	secret  []byte
	revoked RevocationChecker
	log     *zap.SugaredLogger
}

func NewAuth(secret string, revoked RevocationChecker, log *zap.SugaredLogger) *Auth {
	return &Auth{secret: []byte(secret), revoked: revoked, log: log}
}

func (a *Auth) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString, ok := bearerToken(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "missing or malformed token")
			return
		}

		claims, err := a.ParseToken(tokenString)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if a.revoked != nil {
			revoked, err := a.revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				a.log.Errorw("revocation lookup failed", "err", err)
				utils.RespondWithError(w, http.StatusInternalServerError, "could not verify session")
				return
			}
			if revoked {
				utils.RespondWithError(w, http.StatusUnauthorized, "session has ended")
				return
			}
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

func ClaimsFromRequest(r *http.Request) (*Claims, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...string) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			held := utils.GetRolesFromRequest(r)
			for _, role := range roles {
				if slices.Contains(held, role) {
					next(w, r, ps)
					return
				}
			}
			utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		}
	}
}
