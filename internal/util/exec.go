package util

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// SafeCmdExecution runs the given executable, after verifying that it is safe to do so,
// and returns its trimmed stdout
func SafeCmdExecution(executable string, args []string, timeout time.Duration) (string, error) {
	if _, err := CheckFilePermissionsForExecution(executable); err != nil {
		return "", fmt.Errorf("cannot execute %s: %w", executable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command timed out after %s: %s", timeout, executable)
	}
	if err != nil {
		return "", fmt.Errorf("command failed: %s: %w", executable, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// SafeCmdExecutionForInt runs the given executable and parses its output as an integer
func SafeCmdExecutionForInt(executable string, args []string, timeout time.Duration) (int, error) {
	output, err := SafeCmdExecution(executable, args, timeout)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(output, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse output of %s as number: %q", executable, output)
	}
	return int(value), nil
}

// ReplacePlaceholder replaces every occurrence of placeholder in args with value
func ReplacePlaceholder(args []string, placeholder string, value int) []string {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		result = append(result, strings.ReplaceAll(arg, placeholder, strconv.Itoa(value)))
	}
	return result
}
