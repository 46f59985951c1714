//go:build !linux && !windows

package sysinfo

import "runtime"

func osName() string                        { return runtime.GOOS }
func cpuModel() string                      { return runtime.GOARCH }
func ramTotalBytes() uint64                 { return 0 }
func diskBytes(string) (free, total uint64) { return 0, 0 }
func gpuNames() []string                    { return nil }
