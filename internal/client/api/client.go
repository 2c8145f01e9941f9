// Package api is the HTTP client of the studentcrm JSON API. It keeps the
// session cookie in a cookie jar between calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do sends the request and decodes the JSON body into out. A body with
// success=false becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: bad response (status %d)", ErrUnavailable, resp.StatusCode)
	}
	if !env.Success {
		return "", &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return env.Message, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) (string, error) {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, "", nil)
	return err
}

func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	return c.postForm(ctx, "/api/register", url.Values{
		"first_name":        {reg.FirstName},
		"last_name":         {reg.LastName},
		"email":             {reg.Email},
		"password":          {reg.Password},
		"confirm_password":  {reg.ConfirmPassword},
		"security_question": {reg.SecurityQuestion},
		"security_answer":   {reg.SecurityAnswer},
	}, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.postForm(ctx, "/api/login", url.Values{"email": {email}, "password": {password}}, nil)
}

// Session returns the current session or an error wrapping ErrUnauthenticated.
func (c *Client) Session(ctx context.Context) (*SessionInfo, error) {
	var out SessionInfo
	if _, err := c.do(ctx, http.MethodGet, "/api/login?action=session", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, "", nil)
}

func (c *Client) FetchQuestion(ctx context.Context, email string) (string, error) {
	var out struct {
		SecurityQuestion string `json:"security_question"`
	}
	_, err := c.postForm(ctx, "/api/forgot-password", url.Values{
		"action": {"fetch_question"},
		"email":  {email},
	}, &out)
	if err != nil {
		return "", err
	}
	return out.SecurityQuestion, nil
}

func (c *Client) VerifyAnswer(ctx context.Context, email, answer string) (string, error) {
	return c.postForm(ctx, "/api/forgot-password", url.Values{
		"action":          {"verify_answer"},
		"email":           {email},
		"security_answer": {answer},
	}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword, confirm string) (string, error) {
	return c.postForm(ctx, "/api/forgot-password", url.Values{
		"action":           {"reset_password"},
		"email":            {email},
		"new_password":     {newPassword},
		"confirm_password": {confirm},
	}, nil)
}

func (c *Client) Courses(ctx context.Context) (*CourseList, error) {
	var out CourseList
	if _, err := c.do(ctx, http.MethodGet, "/api/courses?action=list", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CourseDetail(ctx context.Context, id int64) (*CourseDetail, error) {
	var out CourseDetail
	path := "/api/courses?action=detail&id=" + strconv.FormatInt(id, 10)
	if _, err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Enroll(ctx context.Context, courseID int64) (string, error) {
	body, err := json.Marshal(map[string]int64{"course_id": courseID})
	if err != nil {
		return "", err
	}
	return c.do(ctx, http.MethodPost, "/api/courses", bytes.NewReader(body), "application/json", nil)
}
