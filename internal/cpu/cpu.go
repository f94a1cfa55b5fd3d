package cpu

import (
	"runtime"
)

// Available returns the number of CPUs this process may run on, honouring the
// affinity mask and any cgroup CPU quota. It is always at least 1.
func Available() int {
	n := runtime.NumCPU()
	if a, ok := affinity(); ok && a < n {
		n = a
	}
	if q, ok := readQuota(); ok && q < n {
		n = q
	}
	if n < 1 {
		n = 1
	}
	return n
}
