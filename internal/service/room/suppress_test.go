package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	var g Guard
	assert.Equal(t, Idle, g.State())
	assert.False(t, g.Consume(), "idle guard passes events through")

	g.Arm()
	assert.Equal(t, AwaitingOwnEcho, g.State())
	assert.True(t, g.Consume())
	assert.Equal(t, Idle, g.State())
	assert.False(t, g.Consume(), "only one echo is swallowed")

	g.Arm()
	g.Arm()
	assert.True(t, g.Consume())
	assert.False(t, g.Consume(), "arming twice still awaits a single echo")

	g.Arm()
	g.Reset()
	assert.False(t, g.Consume())
	assert.Equal(t, "idle", g.State().String())
}
