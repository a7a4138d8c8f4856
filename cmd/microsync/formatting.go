package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/microsync/microsync/pkg/errors"
	"github.com/microsync/microsync/pkg/result"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// interactive reports whether prompting is allowed: stdin must be a
// terminal and scripting must not be requested.
func interactive(script bool) bool {
	if script {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func styled(style lipgloss.Style, s string) string {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return style.Render(s)
	}
	return s
}

// emit writes a command result to the terminal. A failed result has
// already said everything it needs to; errResultFailure only carries the
// exit code.
func emit(res result.Result) error {
	if res.Stdout != "" {
		fmt.Fprintln(os.Stdout, res.Stdout)
	}
	if res.Success {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	if res.Stderr != "" {
		fmt.Fprintln(os.Stderr, styled(failureStyle, res.Stderr))
	}
	return errResultFailure
}

// reportError prints an unexpected error with its code when it carries one.
func reportError(err error) {
	if err == nil || err == errResultFailure {
		return
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		fmt.Fprintln(os.Stderr, styled(errorStyle, fmt.Sprintf("Error [%s]: %v", code, err)))
		return
	}
	fmt.Fprintln(os.Stderr, styled(errorStyle, fmt.Sprintf("Error: %v", err)))
}
