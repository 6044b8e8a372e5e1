package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"srvclip/pkg/errors"

	"github.com/fatih/color"
)

const (
	responseYes = "yes"
	responseY   = "y"
)

// confirmInput is where confirmation answers are read from.
var confirmInput io.Reader = os.Stdin

// IsAssumeYes returns true if we should skip confirmation prompts
func IsAssumeYes() bool {
	return assumeYesFlag
}

// ConfirmPrompt asks the user for confirmation
func ConfirmPrompt(message string) (bool, error) {
	if assumeYesFlag {
		return true, nil
	}

	yellow := color.New(color.FgYellow)
	_, _ = yellow.Fprintf(os.Stderr, "%s [y/N]: ", message)

	reader := bufio.NewReader(confirmInput)
	response, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		return false, err
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == responseY || response == responseYes, nil
}

// RequireConfirmation warns about a destructive action and returns a
// cancellation error unless the user agrees.
func RequireConfirmation(action string) error {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(os.Stderr, "Warning: You are about to %s\n", action)

	confirmed, err := ConfirmPrompt("Do you want to continue")
	if err != nil {
		return errors.NewWithError(errors.ExitCodeCancellation, "failed to read confirmation", err)
	}
	if !confirmed {
		return errors.New(errors.ExitCodeCancellation, fmt.Sprintf("operation canceled by user: %s", action))
	}
	return nil
}
