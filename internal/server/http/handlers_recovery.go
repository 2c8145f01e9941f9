package http

import (
	"net/http"
	"strings"
)

const msgNoAccount = "No account found with that email."

// forgotPassword dispatches the three recovery steps on the form's action.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	// empty emails are reported by the service with a per-step message
	email := strings.TrimSpace(r.PostForm.Get("email"))

	ctx := r.Context()
	switch r.PostForm.Get("action") {
	case "fetch_question":
		q, err := h.recovery.FetchQuestion(ctx, email)
		if err != nil {
			h.fail(w, r, err, msgNoAccount)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":           true,
			"security_question": q,
		})

	case "verify_answer":
		if err := h.recovery.VerifyAnswer(ctx, email, r.PostForm.Get("security_answer")); err != nil {
			h.fail(w, r, err, msgNoAccount)
			return
		}
		writeMessage(w, "Security answer verified.")

	case "reset_password":
		err := h.recovery.ResetPassword(ctx, email,
			r.PostForm.Get("new_password"), r.PostForm.Get("confirm_password"))
		if err != nil {
			h.fail(w, r, err, "Unable to update password.")
			return
		}
		writeMessage(w, "Password updated successfully.")

	default:
		writeError(w, http.StatusUnprocessableEntity, "Unknown action requested.")
	}
}
