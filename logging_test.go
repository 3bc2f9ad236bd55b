package cubesketch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := newLogger("sketch", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("size %dx%d", 1920, 1080)
	l.Warnf("surface outdated")
	l.Errorf("draw failed: %v", "lost")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[sketch] INFO: size 1920x1080")
	assert.Contains(t, errOut.String(), "[sketch] WARN: surface outdated")
	assert.Contains(t, errOut.String(), "[sketch] ERROR: draw failed: lost")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "DEBUG: shown 2")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := newLogger("", false, &out, &out)
	l.Infof("hello")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "INFO: hello"))
}

func TestSessionLogger_TagsPrefix(t *testing.T) {
	a := NewSessionLogger("sketch", false)
	b := NewSessionLogger("sketch", false)
	assert.True(t, strings.HasPrefix(a.prefix, "sketch "))
	assert.Len(t, a.prefix, len("sketch ")+8)
	assert.NotEqual(t, a.prefix, b.prefix)
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())

	d := NewDefaultLogger("x", true)
	assert.Same(t, d, OrNop(d))
}
