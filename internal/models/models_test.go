package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProjectStatus(t *testing.T) {
	for _, value := range []string{"planning", "active", "archived"} {
		status, err := ParseProjectStatus(value)
		require.NoError(t, err)
		require.Equal(t, ProjectStatus(value), status)
	}

	_, err := ParseProjectStatus("demolished")
	require.Error(t, err)
	_, err = ParseProjectStatus("")
	require.Error(t, err)
}

func TestParseMessageType(t *testing.T) {
	for _, value := range []string{"text", "audio", "image"} {
		_, err := ParseMessageType(value)
		require.NoError(t, err)
	}

	_, err := ParseMessageType("video")
	require.Error(t, err)
}

func TestParseMilestoneStatus(t *testing.T) {
	for _, value := range []string{"pending", "met", "paid"} {
		_, err := ParseMilestoneStatus(value)
		require.NoError(t, err)
	}

	_, err := ParseMilestoneStatus("overdue")
	require.Error(t, err)
}

func TestParsePaymentEnums(t *testing.T) {
	for _, value := range []string{"stripe", "pix", "boleto", "cash", "cartao"} {
		_, err := ParsePaymentProvider(value)
		require.NoError(t, err)
	}
	_, err := ParsePaymentProvider("check")
	require.Error(t, err)

	for _, value := range []string{"pending", "completed", "failed"} {
		_, err := ParsePaymentStatus(value)
		require.NoError(t, err)
	}
	_, err = ParsePaymentStatus("refunded")
	require.Error(t, err)
}
