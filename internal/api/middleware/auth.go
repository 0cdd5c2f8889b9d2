package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/PARK-RecurringService/internal/api/handlers"
)

type ctxKey int

const usernameKey ctxKey = iota

// HeaderUserName заголовок с именем пользователя, проставляется шлюзом
const HeaderUserName = "X-User-Name"

// Auth требует заголовок X-User-Name и кладет имя пользователя в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.Header.Get(HeaderUserName)
		if username == "" {
			handlers.RespondUnauthorized(w, "требуется заголовок "+HeaderUserName)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Username достает имя пользователя из контекста запроса
func Username(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}
