// Package cli provides the interactive studentcrm command-line client.
//
// It wires configuration, the HTTP API client and a REPL. Commands that
// need an account first ask the server whether the session is still
// valid; when it is not, the login prompt runs instead of the command.
//
// Commands:
//   - register, login, forgot, logout
//   - whoami, courses, show <id>, enroll <id>
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
