package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 2*time.Second)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginKeepsCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "a@b.io", r.PostForm.Get("email"))
			assert.Equal(t, "pw", r.PostForm.Get("password"))
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "tok", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful."})
			return
		}
		c, err := r.Cookie("sid")
		if err != nil || c.Value != "tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Session not found."})
			return
		}
		assert.Equal(t, "session", r.URL.Query().Get("action"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true, "message": "ok", "user_id": 7, "first_name": "Ann", "email": "a@b.io",
		})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Session(ctx)
	require.ErrorIs(t, err, ErrUnauthenticated)

	msg, err := c.Login(ctx, "a@b.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Login successful.", msg)

	s, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UserID)
	assert.Equal(t, "Ann", s.FirstName)
}

func TestClient_ServerMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"success": false, "message": "Passwords do not match."})
	}))

	_, err := c.Register(context.Background(), Registration{Email: "x@y.io"})
	require.Error(t, err)
	var ae *APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusUnprocessableEntity, ae.Status)
	assert.False(t, errors.Is(err, ErrUnauthenticated))

	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Passwords do not match.", msg)
}

func TestClient_Unavailable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	_, err := c.Courses(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	closed, err := New("http://127.0.0.1:1", 200*time.Millisecond)
	require.NoError(t, err)
	require.ErrorIs(t, closed.Ping(context.Background()), ErrUnavailable)
}

func TestClient_Courses(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "list":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "message": "",
				"enrolled": []map[string]any{{"id": 1, "title": "Algebra"}},
				"catalog": []map[string]any{
					{"id": 1, "title": "Algebra", "enrolled": true},
					{"id": 2, "title": "Biology", "enrolled": false},
				},
			})
		case "detail":
			assert.Equal(t, "2", r.URL.Query().Get("id"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true, "message": "",
				"course":   map[string]any{"id": 2, "title": "Biology", "summary": "Cells."},
				"enrolled": []map[string]any{},
			})
		default:
			t.Fatalf("unexpected action %q", r.URL.RawQuery)
		}
	}))
	ctx := context.Background()

	list, err := c.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, list.Catalog, 2)
	require.NotNil(t, list.Catalog[0].Enrolled)
	assert.True(t, *list.Catalog[0].Enrolled)
	assert.False(t, *list.Catalog[1].Enrolled)

	d, err := c.CourseDetail(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Biology", d.Course.Title)
	require.NotNil(t, d.Course.Summary)
	assert.Equal(t, "Cells.", *d.Course.Summary)
}

func TestClient_Enroll(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body struct {
			CourseID int64 `json:"course_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(3), body.CourseID)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Already enrolled."})
	}))
	msg, err := c.Enroll(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Already enrolled.", msg)
}

func TestClient_Recovery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("action") {
		case "fetch_question":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "", "security_question": "Pet?"})
		case "verify_answer":
			assert.Equal(t, "rex", r.PostForm.Get("security_answer"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Answer verified."})
		case "reset_password":
			assert.Equal(t, "n1", r.PostForm.Get("new_password"))
			assert.Equal(t, "n1", r.PostForm.Get("confirm_password"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password updated."})
		}
	}))
	ctx := context.Background()

	q, err := c.FetchQuestion(ctx, "a@b.io")
	require.NoError(t, err)
	assert.Equal(t, "Pet?", q)

	_, err = c.VerifyAnswer(ctx, "a@b.io", "rex")
	require.NoError(t, err)

	msg, err := c.ResetPassword(ctx, "a@b.io", "n1", "n1")
	require.NoError(t, err)
	assert.Equal(t, "Password updated.", msg)
}
