package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studentcrm/internal/client/api"
	"github.com/dmitrijs2005/studentcrm/internal/client/config"
	"github.com/dmitrijs2005/studentcrm/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const msgGeneric = "Something went wrong, please try again."

// Client is the part of the API client the commands use.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, reg api.Registration) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Session(ctx context.Context) (*api.SessionInfo, error)
	Logout(ctx context.Context) (string, error)
	FetchQuestion(ctx context.Context, email string) (string, error)
	VerifyAnswer(ctx context.Context, email, answer string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword, confirm string) (string, error)
	Courses(ctx context.Context) (*api.CourseList, error)
	CourseDetail(ctx context.Context, id int64) (*api.CourseDetail, error)
	Enroll(ctx context.Context, courseID int64) (string, error)
}

type App struct {
	config *config.Config
	api    Client
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
	user *api.SessionInfo
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := api.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		api:    apiClient,
		log:    logging.NewJSONLogger(os.Stderr, "warn"),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkServer(ctx)
	go a.StartOnlineStatusWatcher(ctx, 30*time.Second)

	fmt.Fprintln(a.out, "Welcome to studentcrm (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Warn(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) setUser(u *api.SessionInfo) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

// getStatus renders the prompt status, e.g. "(ann@example.org online)".
func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var parts []string
	if a.user != nil {
		parts = append(parts, a.user.Email)
	}
	if a.mode != "" {
		parts = append(parts, string(a.mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) checkServer(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is
// cancelled and keeps the prompt's mode indicator current.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkServer(ctx)
		case <-ctx.Done():
			return
		}
	}
}
