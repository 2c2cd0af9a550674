package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"

	// Заголовки выставляет API gateway после аутентификации
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidRole   = "некорректная роль пользователя"
	msgAdminOnly     = "доступно только администратору"
)

// Auth кладёт в контекст ID пользователя и роль из заголовков.
// Без X-User-Role пользователь считается капитаном
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := domain.RoleCaptain
		if rawRole := r.Header.Get(HeaderUserRole); rawRole != "" {
			parsed, ok := domain.ParseRole(rawRole)
			if !ok {
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}
			role = parsed
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly пропускает только администраторов. Ставится после Auth
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetRole извлекает роль пользователя из контекста
func GetRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}

// IsAdmin true, если запрос пришёл от администратора
func IsAdmin(ctx context.Context) bool {
	role, ok := GetRole(ctx)
	return ok && role == domain.RoleAdmin
}

// WithCaller кладёт пользователя в контекст, нужен тестам handlers
func WithCaller(ctx context.Context, userID int64, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
