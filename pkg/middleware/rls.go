package middleware

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
)

// DBRlsMiddleware sets the authenticated user's id in the Postgres session so
// row-level-security policies on subscriptions and transactions can apply.
// For strict RLS the handlers must run their queries inside one transaction
// (BEGIN; SET LOCAL ...; SELECT ...; COMMIT;).
func DBRlsMiddleware(db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(UserIDKey).(int64)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			_, err := db.ExecContext(r.Context(), fmt.Sprintf("SET app.user_id = '%d'", userID))
			if err != nil {
				http.Error(w, "Failed to set security context", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)

			_, _ = db.ExecContext(context.Background(), "RESET app.user_id")
		})
	}
}
