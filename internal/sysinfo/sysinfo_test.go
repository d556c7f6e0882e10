package sysinfo

import (
	"strings"
	"testing"
)

const sampleCPUInfo = `processor	: 0
model name	: Intel(R) Xeon(R) CPU @ 2.20GHz
cpu MHz		: 2200.000
processor	: 1
model name	: Intel(R) Xeon(R) CPU @ 2.20GHz
cpu MHz		: 2200.000
processor	: 2
model name	: Intel(R) Xeon(R) CPU @ 2.20GHz
cpu MHz		: 2200.000
processor	: 3
model name	: Intel(R) Xeon(R) CPU @ 2.20GHz
cpu MHz		: 2200.000
`

const sampleMemInfo = `MemTotal:       15400564 kB
MemFree:         1234567 kB
`

func TestScanProcKeyValuesCPU(t *testing.T) {
	var mi MachineInfo
	if err := scanProcKeyValues(strings.NewReader(sampleCPUInfo), &mi, cpuFuncs); err != nil {
		t.Fatal(err)
	}
	if mi.CPUCores != 4 {
		t.Errorf("CPUCores = %d, want 4", mi.CPUCores)
	}
	if mi.CPUMHz != 2200.0 {
		t.Errorf("CPUMHz = %v, want 2200.0", mi.CPUMHz)
	}
	if mi.CPUModelName != "Intel(R) Xeon(R) CPU @ 2.20GHz" {
		t.Errorf("CPUModelName = %q", mi.CPUModelName)
	}
}

func TestScanProcKeyValuesMem(t *testing.T) {
	var mi MachineInfo
	if err := scanProcKeyValues(strings.NewReader(sampleMemInfo), &mi, memFuncs); err != nil {
		t.Fatal(err)
	}
	if mi.MemBytes != 15400564*1024 {
		t.Errorf("MemBytes = %d, want %d", mi.MemBytes, 15400564*1024)
	}
}

func TestParseProcFileUint64(t *testing.T) {
	var v uint64
	if err := parseProcFileUint64([]byte("512\n"), &v); err != nil {
		t.Fatal(err)
	}
	if v != 512 {
		t.Errorf("v = %d, want 512", v)
	}
	if err := parseProcFileUint64([]byte("not-a-number"), &v); err == nil {
		t.Error("expected error for non-numeric input")
	}
}
