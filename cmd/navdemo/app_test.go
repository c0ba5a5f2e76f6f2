package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_RestoredDraftWarns(t *testing.T) {
	first := newApp(slog.New(slog.DiscardHandler), nil)
	first.root.Start()
	first.compose("ada")
	saved := first.root.SaveInstanceState()
	first.root.Destroy()

	var logs bytes.Buffer
	second := newApp(slog.New(slog.NewTextHandler(&logs, nil)), saved)
	second.root.Start()
	require.Len(t, second.root.Children(), 2)

	require.True(t, second.back(), "open draft holds the first press")
	assert.Contains(t, logs.String(), "draft open, press back again to discard")
	assert.Contains(t, logs.String(), "to=ada")
	assert.Len(t, second.root.Children(), 2)

	require.True(t, second.back())
	_, ok := second.mail()
	assert.True(t, ok, "second press discards the draft")
}
