// Package system holds host-level concerns: file descriptor limits,
// resource preflight before launching a browser, and browser discovery.
package system

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

const minAvailableMemory = 1 << 30 // Chromium below 1 GiB free is misery

// InitResourceLimits raises the open-file soft limit. A browser plus its
// renderer processes burns through descriptors quickly.
func InitResourceLimits(log *zap.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("cannot read file limit", zap.Error(err))
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("cannot raise file limit", zap.Error(err))
	} else {
		log.Debug("open file limit raised", zap.Uint64("limit", rLimit.Cur))
	}
}

// Preflight checks the host before launching the browser. Shortages are
// logged as warnings; only a missing browser binary is a hard error.
func Preflight(log *zap.Logger) error {
	if vm, err := mem.VirtualMemory(); err == nil {
		log.Debug("memory",
			zap.Uint64("total", vm.Total), zap.Uint64("available", vm.Available))
		if vm.Available < minAvailableMemory {
			log.Warn("low available memory", zap.Uint64("available", vm.Available))
		}
	}
	if n, err := cpu.Counts(true); err == nil {
		log.Debug("cpu", zap.Int("logical", n))
	}

	path, err := FindBrowser()
	if err != nil {
		return err
	}
	log.Debug("browser found", zap.String("path", path))
	return nil
}

// FindBrowser locates a Chromium-family binary on PATH.
func FindBrowser() (string, error) {
	names := []string{
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
		"chrome",
	}
	for _, n := range names {
		if path, err := exec.LookPath(n); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chromium-family browser on PATH (tried %v)", names)
}
