package query

import (
	"errors"
	"fmt"
	"testing"

	ts3 "github.com/multiplay/go-ts3"
	"github.com/stretchr/testify/assert"
)

func TestIsEmptyResult(t *testing.T) {
	assert.False(t, IsEmptyResult(nil))
	assert.False(t, IsEmptyResult(errors.New("insufficient client permissions")))

	assert.True(t, IsEmptyResult(&ts3.Error{ID: 1281, Msg: "database empty result set"}))
	assert.False(t, IsEmptyResult(&ts3.Error{ID: 2568, Msg: "insufficient permissions"}))

	// Wrapped protocol error still matches.
	wrapped := fmt.Errorf("banlist: %w", &ts3.Error{ID: 1281, Msg: "database empty result set"})
	assert.True(t, IsEmptyResult(wrapped))

	// Message-based fallback for errors that lost their type.
	assert.True(t, IsEmptyResult(errors.New("database empty result set")))
	assert.True(t, IsEmptyResult(errors.New("server returned: Empty Result set")))
}

func TestNormalizeEventType(t *testing.T) {
	assert.Equal(t, "clientmoved", NormalizeEventType("notifyclientmoved"))
	assert.Equal(t, "clientmoved", NormalizeEventType("clientmoved"))
	assert.Equal(t, "textmessage", NormalizeEventType("NotifyTextMessage"))
}
