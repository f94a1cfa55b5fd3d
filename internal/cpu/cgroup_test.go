package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCgroup(t *testing.T) {
	v1 := parseCgroup(strings.NewReader("12:pids:/docker/abc\n4:cpu,cpuacct:/docker/abc\n3:memory:/docker/abc\n"))
	assert.False(t, v1.cgroup2)
	assert.Equal(t, "/docker/abc", v1.cpu)

	v2 := parseCgroup(strings.NewReader("0::/user.slice/session-1.scope\n"))
	assert.True(t, v2.cgroup2)
	assert.Equal(t, "/user.slice/session-1.scope", v2.unified)
}

func TestParseCPUMax(t *testing.T) {
	n, ok := parseCPUMax("200000 100000\n")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = parseCPUMax("150000 100000")
	assert.True(t, ok)
	assert.Equal(t, 2, n, "partial cpus round up")

	_, ok = parseCPUMax("max 100000")
	assert.False(t, ok)

	_, ok = parseCPUMax("garbage")
	assert.False(t, ok)
}

func TestQuotaCPUs(t *testing.T) {
	_, ok := quotaCPUs(-1, 100000)
	assert.False(t, ok, "cgroup1 unlimited quota")

	n, ok := quotaCPUs(50000, 100000)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestAvailable(t *testing.T) {
	assert.GreaterOrEqual(t, Available(), 1)
}
