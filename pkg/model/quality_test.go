package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRoundTrip(t *testing.T) {
	for _, status := range []Status{StatusPass, StatusWarning, StatusFail, StatusError, StatusSkipped} {
		parsed, err := ParseStatus(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
}

func TestParseStatusUnknown(t *testing.T) {
	_, err := ParseStatus("MAYBE")
	assert.Error(t, err)
}

func TestStatusSeverityOrder(t *testing.T) {
	assert.True(t, StatusPass < StatusWarning)
	assert.True(t, StatusWarning < StatusFail)
	assert.True(t, StatusFail < StatusError)
}

func TestDropReasonString(t *testing.T) {
	assert.Equal(t, "UnparsableDate", DropUnparsableDate.String())
	assert.Equal(t, "Duplicate", DropDuplicate.String())
	assert.Contains(t, DropReason(99).String(), "Unknown")
}
