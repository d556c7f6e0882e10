// Package sysinfo gathers a machine fingerprint for inclusion in the
// benchmark detail log. Adapted from this codebase's long-standing
// /proc scanner: a small table of key names to update functions, driven
// across whichever /proc file the key lives in.
package sysinfo

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// MachineInfo is a fingerprint of the host running the benchmark.
type MachineInfo struct {
	CPUModelName string
	CPUMHz       float64
	CPUCores     int

	MemBytes uint64

	TCPMaxSynBacklog uint64
}

type procFunc map[string]func(string, *MachineInfo)

var (
	cpuFuncs = procFunc{
		"processor": func(value string, mi *MachineInfo) {
			if num, err := strconv.Atoi(value); err == nil && mi.CPUCores <= num {
				mi.CPUCores = num + 1
			}
		},
		"model name": func(value string, mi *MachineInfo) {
			mi.CPUModelName = value
		},
		"cpu MHz": func(value string, mi *MachineInfo) {
			if num, err := strconv.ParseFloat(value, 64); err == nil {
				mi.CPUMHz = num
			}
		},
	}

	memFuncs = procFunc{
		"MemTotal": func(value string, mi *MachineInfo) {
			if !strings.HasSuffix(value, " kB") {
				return
			}
			if kb, err := strconv.ParseUint(value[:len(value)-3], 10, 64); err == nil {
				mi.MemBytes = kb * 1024
			}
		},
	}

	once    sync.Once
	current *MachineInfo
)

// Current returns the machine fingerprint, reading /proc exactly once per
// process.
func Current() *MachineInfo {
	once.Do(func() { current = read() })
	return current
}

func read() *MachineInfo {
	var mi MachineInfo
	readProcKeyValues("/proc/cpuinfo", &mi, cpuFuncs)
	readProcKeyValues("/proc/meminfo", &mi, memFuncs)
	readProcFileUint64("/proc/sys/net/ipv4/tcp_max_syn_backlog", &mi.TCPMaxSynBacklog)
	return &mi
}

func readProcKeyValues(path string, mi *MachineInfo, pf procFunc) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = scanProcKeyValues(f, mi, pf)
}

// scanProcKeyValues parses "key : value" lines, invoking pf[key] for each
// recognized key. Unrecognized lines and malformed lines are skipped.
func scanProcKeyValues(f io.Reader, mi *MachineInfo, pf procFunc) error {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if kf, ok := pf[key]; ok {
			kf(val, mi)
		}
	}
	return scanner.Err()
}

func readProcFileUint64(path string, p *uint64) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = parseProcFileUint64(b, p)
}

func parseProcFileUint64(b []byte, p *uint64) error {
	s := strings.TrimSpace(string(b))
	ui, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*p = ui
	return nil
}
