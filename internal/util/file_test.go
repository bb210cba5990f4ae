package util

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndReadIntFromFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "pwm1")

	// WHEN
	err := WriteIntToFile(128, path)
	require.NoError(t, err)
	value, err := ReadIntFromFile(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 128, value)
}

func TestWriteIntToFileAtomic(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "duty")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	// WHEN
	err := WriteIntToFileAtomic(7, path)

	// THEN
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7", string(content))
}

func TestReadIntFromFileTrimsWhitespace(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "sample")
	require.NoError(t, os.WriteFile(path, []byte(" 42\n"), 0644))

	// WHEN
	value, err := ReadIntFromFile(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestReadIntFromEmptyFile(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	// WHEN
	_, err := ReadIntFromFile(path)

	// THEN
	assert.Error(t, err)
}

func TestReadIntFromMissingFile(t *testing.T) {
	// WHEN
	_, err := ReadIntFromFile(filepath.Join(t.TempDir(), "missing"))

	// THEN
	assert.Error(t, err)
}

func TestCheckFilePermissionsForExecutionOthersWrite(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o777))
	require.NoError(t, os.Chmod(path, 0o777))

	// WHEN
	result, err := CheckFilePermissionsForExecution(path)

	// THEN
	assert.False(t, result)
	assert.Error(t, err)
}
