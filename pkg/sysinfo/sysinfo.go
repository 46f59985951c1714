// Package sysinfo builds the static host summary injected into generation
// prompts. Computed once at startup; every probe is best effort and a
// failed probe just drops its fragment from the summary.
package sysinfo

import (
	"fmt"
	"runtime"
	"strings"
)

// Summary describes the host in a single human-readable line, e.g.
// "OS: linux 6.8, CPU: AMD Ryzen 7 (16 hilos), RAM: 31.3 GB, Disco: 120.5 GB libres de 460.1 GB".
func Summary() string {
	parts := []string{
		"OS: " + osName(),
		fmt.Sprintf("CPU: %s (%d hilos)", cpuModel(), runtime.NumCPU()),
	}

	if total := ramTotalBytes(); total > 0 {
		parts = append(parts, fmt.Sprintf("RAM: %.1f GB", gb(total)))
	}
	if free, total := diskBytes("/"); total > 0 {
		parts = append(parts, fmt.Sprintf("Disco: %.1f GB libres de %.1f GB", gb(free), gb(total)))
	}
	if gpus := gpuNames(); len(gpus) > 0 {
		parts = append(parts, "GPU: "+strings.Join(gpus, ", "))
	}
	return strings.Join(parts, ", ")
}

func gb(bytes uint64) float64 {
	return float64(bytes) / (1 << 30)
}
