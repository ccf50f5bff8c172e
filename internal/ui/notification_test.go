package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisplayUser(t *testing.T) {
	// GIVEN
	output := "root     tty1         2024-01-01 10:00\n" +
		"alice    :0           2024-01-01 10:01 (:0)\n"

	// WHEN
	result := parseDisplayUser(output, ":0")

	// THEN
	assert.Equal(t, "alice", result)
}

func TestParseDisplayUser_NoMatch(t *testing.T) {
	// GIVEN
	output := "root     tty1         2024-01-01 10:00\n"

	// WHEN
	result := parseDisplayUser(output, ":1")

	// THEN
	assert.Empty(t, result)
}
