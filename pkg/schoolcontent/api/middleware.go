package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

type contextKey string

// AdminSessionKey holds the decoded admin identity in the request context.
const AdminSessionKey contextKey = "admin_session"

// NewAdminAuth builds the JWT authority for admin session tokens.
func NewAdminAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// AdminVerifier extracts and verifies the admin session token from the
// admin_session cookie or a bearer header.
func AdminVerifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, tokenFromSessionCookie, jwtauth.TokenFromHeader)
}

func tokenFromSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie("admin_session")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireAdmin rejects requests whose session token is missing, invalid, or
// carries a role other than admin or superadmin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			respondError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" && role != "superadmin" {
			respondError(w, r, http.StatusForbidden, "forbidden")
			return
		}

		session := schoolcontent.AdminSession{Role: role}
		session.ID, _ = claims["sub"].(string)
		session.Username, _ = claims["username"].(string)

		ctx := context.WithValue(r.Context(), AdminSessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the admin identity stored by RequireAdmin.
func SessionFromContext(ctx context.Context) (schoolcontent.AdminSession, bool) {
	session, ok := ctx.Value(AdminSessionKey).(schoolcontent.AdminSession)
	return session, ok
}
