package cpu

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	procCgroupPath = "/proc/self/cgroup"
	rootPath       = "/sys/fs/cgroup"
)

type cgroupInfo struct {
	cpu     string // cgroup1 path of the cpu controller
	unified string // cgroup2 path
	cgroup2 bool
}

func parseCgroup(r io.Reader) *cgroupInfo {
	info := &cgroupInfo{}
	s := bufio.NewScanner(r)
	for s.Scan() {
		parts := strings.SplitN(s.Text(), ":", 3)
		if len(parts) != 3 {
			continue
		}
		switch parts[1] {
		case "":
			info.unified = parts[2]
		case "cpu", "cpu,cpuacct", "cpuacct,cpu":
			info.cpu = parts[2]
		}
	}
	if info.cpu == "" {
		info.cgroup2 = true
	}
	return info
}

// quotaCPUs rounds a CFS quota up to whole CPUs. A non-positive quota means unlimited.
func quotaCPUs(quota, period int64) (int, bool) {
	if quota <= 0 || period <= 0 {
		return 0, false
	}
	return int(math.Ceil(float64(quota) / float64(period))), true
}

// parseCPUMax parses a cgroup2 cpu.max line such as "200000 100000" or "max 100000".
func parseCPUMax(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 || fields[0] == "max" {
		return 0, false
	}
	quota, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}
	period, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return quotaCPUs(quota, period)
}

func readInt(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
}

func (c *cgroupInfo) quota() (int, bool) {
	if c.cgroup2 {
		b, err := os.ReadFile(rootPath + c.unified + "/cpu.max")
		if err != nil {
			// namespaced cgroups see themselves at the root
			if b, err = os.ReadFile(rootPath + "/cpu.max"); err != nil {
				return 0, false
			}
		}
		return parseCPUMax(string(b))
	}
	for _, dir := range []string{rootPath + "/cpu" + c.cpu, rootPath + "/cpu"} {
		quota, err := readInt(dir + "/cpu.cfs_quota_us")
		if err != nil {
			continue
		}
		period, err := readInt(dir + "/cpu.cfs_period_us")
		if err != nil {
			continue
		}
		return quotaCPUs(quota, period)
	}
	return 0, false
}

func readQuota() (int, bool) {
	f, err := os.Open(procCgroupPath)
	if err != nil {
		return 0, false
	}
	defer f.Close()
	return parseCgroup(f).quota()
}
