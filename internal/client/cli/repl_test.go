package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Forgot(ctx context.Context) error {
	f.calls = append(f.calls, "forgot")
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Courses(ctx context.Context) error {
	f.calls = append(f.calls, "courses")
	return nil
}
func (f *fakeExec) Show(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "show")
	f.args = append(f.args, arg)
	return nil
}
func (f *fakeExec) Enroll(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "enroll")
	f.args = append(f.args, arg)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)

	input := bufio.NewReader(strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"whoami",
		"courses",
		"show 3",
		"enroll 3",
		"forgot",
		"register",
		"logout",
		"foobar",
		"exit",
		"courses",
	}, "\n")))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, input)

	assert.Equal(t, []string{"login", "whoami", "courses", "show", "enroll", "forgot", "register", "logout"}, exec.calls)
	assert.Equal(t, []string{"3", "3"}, exec.args)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	lines := silencePrintln(t)

	input := bufio.NewReader(strings.NewReader("show\nenroll\n\nquit\n"))
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, input)

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Usage: show <id>")
	assert.Contains(t, *lines, "Usage: enroll <id>")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	assert.Empty(t, exec.calls)
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := silencePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\n")))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, bufio.NewReader(strings.NewReader("help\n")))

	assert.Contains(t, *lines, "Available commands: register, login, forgot, exit")
	assert.Contains(t, *lines, "Available commands: whoami, courses, show <id>, enroll <id>, logout, exit")
}
