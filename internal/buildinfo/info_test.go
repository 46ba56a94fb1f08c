package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "dev", String())

	Version, Commit, Date = "v1.2.0", "abc1234", "2025-02-01"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })
	assert.Equal(t, "v1.2.0 (commit abc1234, built 2025-02-01)", String())
}
