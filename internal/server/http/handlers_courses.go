package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/studentcrm/internal/server/models"
)

const msgCourseNotFound = "Course not found."

func (h *Handler) getCourses(w http.ResponseWriter, r *http.Request) {
	token := h.sessionToken(r)
	q := r.URL.Query()

	switch q.Get("action") {
	case "", "list":
		list, err := h.courses.ListCourses(r.Context(), token)
		if err != nil {
			h.fail(w, r, err, "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"enrolled": list.Enrolled,
			"catalog":  list.Catalog,
		})

	case "detail":
		// a malformed id is treated like an unknown one
		id, _ := strconv.ParseInt(q.Get("id"), 10, 64)
		d, err := h.courses.CourseDetail(r.Context(), token, id)
		if err != nil {
			h.fail(w, r, err, msgCourseNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"course":   d.Course,
			"enrolled": d.Enrolled,
		})

	default:
		writeError(w, http.StatusUnprocessableEntity, "Unknown action requested.")
	}
}

type enrollRequest struct {
	CourseID json.Number `json:"course_id"`
}

func (h *Handler) enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	// a missing or unreadable body leaves course_id at zero, which the
	// service rejects once the session is known to be valid
	_ = json.NewDecoder(r.Body).Decode(&req)
	id, _ := req.CourseID.Int64()

	status, err := h.courses.Enroll(r.Context(), h.sessionToken(r), id)
	if err != nil {
		h.fail(w, r, err, msgCourseNotFound)
		return
	}

	switch status {
	case models.AlreadyEnrolled:
		writeMessage(w, "You are already enrolled in this course.")
	default:
		writeMessage(w, "Enrolled successfully.")
	}
}
