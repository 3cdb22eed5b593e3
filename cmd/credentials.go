package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"livetiming/application"
	"livetiming/settings"
)

// resolveCredentials loads ~/.f1rc and prompts interactively for
// whatever it's missing, then persists the result (spec.md §6.1,
// grounded on original_source/src/cfgfile.c's get_config and
// CodeCracker-oss-Picocrypt-NG's internal/cli/password.go terminal
// echo-suppression).
func resolveCredentials(mgr *settings.Manager) (application.Config, error) {
	creds, err := mgr.Configuration()
	if err != nil {
		return creds, err
	}

	changed := false
	if creds.Email == "" {
		fmt.Fprint(os.Stderr, "Enter your registered e-mail address: ")
		email, err := readLine()
		if err != nil {
			return creds, err
		}
		creds.Email = email
		changed = true
	}
	if creds.Password == "" {
		password, err := readPassword("Enter your registered password: ")
		if err != nil {
			return creds, err
		}
		creds.Password = password
		changed = true
	}

	if changed {
		if err := mgr.Save(creds); err != nil {
			return creds, err
		}
	}
	return creds, nil
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword hides terminal echo when stdin is a tty, falling back
// to a plain line read when it's piped (e.g. scripted runs).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return readLine()
	}

	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
