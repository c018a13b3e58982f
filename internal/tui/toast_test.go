package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToaster_ShowAndExpire(t *testing.T) {
	toaster := NewToaster(time.Millisecond)

	assert.Nil(t, toaster.Cmd(), "nothing shown yet")

	toaster.NotifySuccess("We found 3 images!")
	text, kind, ok := toaster.Current()
	require.True(t, ok)
	assert.Equal(t, "We found 3 images!", text)
	assert.Equal(t, StatusSuccess, kind)

	cmd := toaster.Cmd()
	require.NotNil(t, cmd)
	assert.Nil(t, toaster.Cmd(), "expiry is scheduled once per notice")

	msg, ok := cmd().(toastExpiredMsg)
	require.True(t, ok)
	toaster.Expire(msg)

	_, _, ok = toaster.Current()
	assert.False(t, ok)
}

func TestToaster_StaleExpiryKeepsNewerNotice(t *testing.T) {
	toaster := NewToaster(time.Millisecond)

	toaster.NotifyError("first")
	first := toaster.Cmd()
	toaster.NotifyError("second")

	toaster.Expire(first().(toastExpiredMsg))

	text, kind, ok := toaster.Current()
	require.True(t, ok)
	assert.Equal(t, "second", text)
	assert.Equal(t, StatusError, kind)
}

func TestToaster_DefaultDuration(t *testing.T) {
	assert.Equal(t, defaultToastDuration, NewToaster(0).duration)
}

func TestToaster_View(t *testing.T) {
	toaster := NewToaster(time.Second)
	assert.Empty(t, toaster.View(40))

	toaster.NotifyError("no response")
	assert.Contains(t, toaster.View(40), "✗ no response")

	toaster.Clear()
	assert.Empty(t, toaster.View(40))
}

func TestStatusKind_BadgeMarkers(t *testing.T) {
	tests := []struct {
		kind StatusKind
		want string
	}{
		{StatusInfo, "• "},
		{StatusSuccess, "✓ "},
		{StatusWarn, "! "},
		{StatusError, "✗ "},
	}
	for _, tt := range tests {
		_, prefix := tt.kind.badge()
		assert.Equal(t, tt.want, prefix)
	}
}
