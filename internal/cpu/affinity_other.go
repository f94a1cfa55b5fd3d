//go:build !linux

package cpu

func affinity() (int, bool) {
	return 0, false
}
