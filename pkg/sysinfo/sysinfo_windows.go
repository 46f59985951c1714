//go:build windows

package sysinfo

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

func osName() string {
	if out, err := runPowershell("(Get-CimInstance Win32_OperatingSystem).Caption"); err == nil {
		if s := strings.TrimSpace(out); s != "" {
			return s
		}
	}
	return "Windows"
}

func cpuModel() string {
	if out, err := runPowershell("Get-CimInstance Win32_Processor | Select-Object -First 1 -ExpandProperty Name"); err == nil {
		if s := strings.TrimSpace(out); s != "" {
			return s
		}
	}
	return runtime.GOARCH
}

func ramTotalBytes() uint64 {
	out, err := runPowershell("(Get-CimInstance Win32_ComputerSystem).TotalPhysicalMemory")
	if err != nil {
		return 0
	}
	n, _ := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
	return n
}

func diskBytes(string) (free, total uint64) {
	out, err := runPowershell(`(Get-PSDrive C).Free; (Get-PSDrive C).Used`)
	if err != nil {
		return 0, 0
	}
	lines := strings.Fields(out)
	if len(lines) < 2 {
		return 0, 0
	}
	f, _ := strconv.ParseUint(lines[0], 10, 64)
	u, _ := strconv.ParseUint(lines[1], 10, 64)
	return f, f + u
}

func gpuNames() []string {
	out, err := runPowershell("Get-CimInstance Win32_VideoController | Select-Object -ExpandProperty Name")
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	if len(names) > 3 {
		names = names[:3]
	}
	return names
}

func runPowershell(script string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "powershell", "-Command", script).Output()
	return string(out), err
}
