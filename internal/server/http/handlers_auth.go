package http

import (
	"net/http"

	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	token, _, err := h.sessions.Authenticate(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	h.setSessionCookie(w, token, h.sessions.TTL())
	writeMessage(w, "Login successful.")
}

// sessionCheck answers GET /api/login?action=session.
func (h *Handler) sessionCheck(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("action") != "session" {
		methodNotAllowed(w, r)
		return
	}

	sess, err := h.sessions.Validate(r.Context(), h.sessionToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Session not found.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"user_id":    sess.UserID,
		"first_name": sess.FirstName,
		"email":      sess.Email,
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	reg := models.Registration{
		FirstName:        r.PostForm.Get("first_name"),
		LastName:         r.PostForm.Get("last_name"),
		Email:            r.PostForm.Get("email"),
		Password:         r.PostForm.Get("password"),
		ConfirmPassword:  r.PostForm.Get("confirm_password"),
		SecurityQuestion: r.PostForm.Get("security_question"),
		SecurityAnswer:   r.PostForm.Get("security_answer"),
	}

	if _, err := h.users.Register(r.Context(), reg); err != nil {
		h.fail(w, r, err, "")
		return
	}

	writeMessage(w, "Registration successful.")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(r.Context(), h.sessionToken(r))
	h.clearSessionCookie(w)
	writeMessage(w, "Logged out successfully.")
}
