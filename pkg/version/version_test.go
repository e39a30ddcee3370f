package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "v1.2.3"
	assert.Equal(t, "invctl v1.2.3 on "+runtime.GOOS+"/"+runtime.GOARCH, String())
}
