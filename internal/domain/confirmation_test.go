package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmation_DecideKeepsTimestampInvariant(t *testing.T) {
	now := time.Date(2026, 9, 5, 8, 0, 0, 0, time.UTC)
	c := NewPendingConfirmation("sess-1", "p1", now)
	require.True(t, c.Pending())
	assert.Nil(t, c.ConfirmedAt)
	assert.Nil(t, c.DeclinedAt)

	later := now.Add(time.Hour)
	require.NoError(t, c.Decide(ConfirmationConfirmed, later))
	assert.Equal(t, ConfirmationConfirmed, c.Status)
	require.NotNil(t, c.ConfirmedAt)
	assert.Equal(t, later, *c.ConfirmedAt)
	assert.Nil(t, c.DeclinedAt)

	// Changing the answer clears the opposing timestamp.
	evenLater := later.Add(time.Hour)
	require.NoError(t, c.Decide(ConfirmationDeclined, evenLater))
	assert.Equal(t, ConfirmationDeclined, c.Status)
	require.NotNil(t, c.DeclinedAt)
	assert.Nil(t, c.ConfirmedAt)
	assert.Equal(t, evenLater, c.UpdatedAt)
}

func TestConfirmation_DecideRejectsUnknownStatus(t *testing.T) {
	c := NewPendingConfirmation("sess-1", "p1", time.Now())
	err := c.Decide("maybe", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.True(t, c.Pending(), "failed decision leaves the row untouched")
}

func TestConfirmation_ResetToPending(t *testing.T) {
	now := time.Date(2026, 9, 5, 8, 0, 0, 0, time.UTC)
	c := NewPendingConfirmation("sess-1", "p1", now)
	require.NoError(t, c.Decide(ConfirmationConfirmed, now.Add(time.Hour)))

	c.ResetToPending(now.Add(2 * time.Hour))
	assert.True(t, c.Pending())
	assert.Nil(t, c.ConfirmedAt)
	assert.Nil(t, c.DeclinedAt)
}
