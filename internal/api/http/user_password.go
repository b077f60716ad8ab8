package http

import (
	"database/sql"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	authmw "github.com/forgepath/forgepath-pbl/internal/auth/middleware"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// POST /users/me/password lets the caller change their own password.
func ChangePasswordHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		if sub == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req changePasswordReq
		if !decodeValid(w, r, &req) {
			return
		}

		var hash string
		err := db.QueryRowContext(r.Context(),
			`SELECT pass_hash FROM users WHERE id=$1 OR username=$1`, sub).Scan(&hash)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.OldPassword)) != nil {
			http.Error(w, "old password incorrect", http.StatusForbidden)
			return
		}
		newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := db.ExecContext(r.Context(),
			`UPDATE users SET pass_hash=$1 WHERE id=$2 OR username=$2`, string(newHash), sub); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
