//go:build profiler
// +build profiler

package panelsd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/felixge/fgprof"
	"github.com/google/gops/agent"

	"github.com/regenrek/paneldeck/internal/profiling"
	"github.com/regenrek/paneldeck/internal/userpath"
)

const (
	cpuProfileEnv      = "PANELDECK_CPU_PROFILE"
	cpuProfileSecsEnv  = "PANELDECK_CPU_PROFILE_SECS"
	memProfileEnv      = "PANELDECK_MEM_PROFILE"
	fgprofProfileEnv   = "PANELDECK_FGPROF"
	fgprofProfileSecs  = "PANELDECK_FGPROF_SECS"
	profileDoneEnv     = "PANELDECK_PROFILE_DONE"
	profileStartDelay  = "PANELDECK_PROFILE_START_DELAY"
	profileStartOnDrag = "PANELDECK_PROFILE_START_ON_DRAG"
	profileTriggerWait = "PANELDECK_PROFILE_TRIGGER_TIMEOUT"
	gopsEnv            = "PANELDECK_GOPS"
	gopsAddrEnv        = "PANELDECK_GOPS_ADDR"
	gopsConfigDirEnv   = "PANELDECK_GOPS_CONFIG_DIR"
	defaultProfileSecs = 30
)

type daemonProfiler struct {
	cpuPath  string
	memPath  string
	fgPath   string
	donePath string
	cpuFile  *os.File
	fgFile   *os.File
	fgStop   func() error
	stopMu   sync.Mutex
	stopOnce sync.Once
}

func (d *Daemon) startProfiler() {
	if d == nil || d.profileStop != nil {
		return
	}
	stop := startProfiler(d.ctx)
	if stop != nil {
		d.profileStop = stop
	}
}

func (d *Daemon) stopProfiler() {
	if d == nil || d.profileStop == nil {
		return
	}
	d.profileStop()
	d.profileStop = nil
}

func startProfiler(ctx context.Context) func() {
	cpuPath := strings.TrimSpace(os.Getenv(cpuProfileEnv))
	memPath := strings.TrimSpace(os.Getenv(memProfileEnv))
	fgPath := strings.TrimSpace(os.Getenv(fgprofProfileEnv))
	donePath := strings.TrimSpace(os.Getenv(profileDoneEnv))
	enableGops := envBool(gopsEnv)
	if cpuPath == "" && memPath == "" && fgPath == "" && !enableGops {
		return nil
	}
	profiler := &daemonProfiler{
		cpuPath:  cpuPath,
		memPath:  memPath,
		fgPath:   fgPath,
		donePath: donePath,
	}
	if enableGops {
		profiler.startGopsAgent()
	}
	profiler.stopOnContext(ctx)
	go profiler.runProfileSchedule(ctx)
	return profiler.stop
}

// runProfileSchedule runs the cpu profile, then fgprof, then stops. When
// the start-on-drag trigger is set, nothing samples until the first panel
// drag arrives or the trigger timeout expires.
func (p *daemonProfiler) runProfileSchedule(ctx context.Context) {
	cpuDur := profileDurationFromEnv(cpuProfileSecsEnv, defaultProfileSecs*time.Second)
	fgDur := profileDurationFromEnv(fgprofProfileSecs, cpuDur)
	startDelay := profileDurationFromEnv(profileStartDelay, 0)

	if envBool(profileStartOnDrag) {
		waitFor := profileDurationFromEnv(profileTriggerWait, 0)
		if !profiling.Wait(ctx, waitFor) {
			slog.Warn("panelsd: profiler trigger timeout; starting anyway")
		}
	}

	total := startDelay
	p.startCPU(ctx, cpuDur, startDelay)
	offset := startDelay
	if p.cpuPath != "" && cpuDur > 0 {
		offset += cpuDur
		total += cpuDur
	}
	if p.fgPath != "" && fgDur > 0 {
		p.startFgprof(ctx, fgDur, offset)
		total += fgDur
	}
	if total > 0 {
		p.stopAfter(ctx, total)
	}
}

func (p *daemonProfiler) startCPU(ctx context.Context, duration, delay time.Duration) {
	if p == nil || p.cpuPath == "" {
		return
	}
	go func() {
		if err := sleepWithContext(ctx, delay); err != nil {
			return
		}
		path, err := sanitizeProfilePath(p.cpuPath)
		if err != nil {
			slog.Warn("panelsd: cpu profile path invalid", slog.Any("err", err))
			return
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			slog.Warn("panelsd: open cpu profile failed", slog.Any("err", err))
			return
		}
		if err := pprof.StartCPUProfile(file); err != nil {
			_ = file.Close()
			slog.Warn("panelsd: start cpu profile failed", slog.Any("err", err))
			return
		}
		p.stopMu.Lock()
		p.cpuFile = file
		p.stopMu.Unlock()
		slog.Info("panelsd: cpu profile started", slog.String("path", path))
		if duration <= 0 {
			return
		}
		if err := sleepWithContext(ctx, duration); err != nil {
			p.stopCPU()
			return
		}
		p.stopCPU()
	}()
}

func (p *daemonProfiler) startFgprof(ctx context.Context, duration, delay time.Duration) {
	if p == nil || p.fgPath == "" || duration <= 0 {
		return
	}
	go func() {
		if err := sleepWithContext(ctx, delay); err != nil {
			return
		}
		path, err := sanitizeProfilePath(p.fgPath)
		if err != nil {
			slog.Warn("panelsd: fgprof profile path invalid", slog.Any("err", err))
			return
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			slog.Warn("panelsd: open fgprof profile failed", slog.Any("err", err))
			return
		}
		stop := fgprof.Start(file, fgprof.FormatPprof)
		p.stopMu.Lock()
		p.fgFile = file
		p.fgStop = stop
		p.stopMu.Unlock()
		slog.Info("panelsd: fgprof profile started", slog.String("path", path))
		if err := sleepWithContext(ctx, duration); err != nil {
			p.stopFgprof()
			return
		}
		p.stopFgprof()
	}()
}

func (p *daemonProfiler) stopAfter(ctx context.Context, duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		p.stop()
	case <-timer.C:
		p.stop()
	}
}

func (p *daemonProfiler) stopOnContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	go func() {
		<-ctx.Done()
		p.stop()
	}()
}

func (p *daemonProfiler) stopCPU() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	if p.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = p.cpuFile.Close()
	p.cpuFile = nil
}

func (p *daemonProfiler) stopFgprof() {
	p.stopMu.Lock()
	defer p.stopMu.Unlock()
	if p.fgFile == nil {
		return
	}
	if p.fgStop != nil {
		if err := p.fgStop(); err != nil {
			slog.Warn("panelsd: fgprof stop failed", slog.Any("err", err))
		}
	}
	_ = p.fgFile.Close()
	p.fgFile = nil
	p.fgStop = nil
}

func (p *daemonProfiler) stop() {
	p.stopOnce.Do(func() {
		p.stopCPU()
		p.stopFgprof()
		if p.memPath != "" {
			if err := writeHeapProfile(p.memPath); err != nil {
				slog.Warn("panelsd: heap profile failed", slog.Any("err", err))
			}
		}
		if p.donePath != "" {
			if err := writeDoneMarker(p.donePath); err != nil {
				slog.Warn("panelsd: profiler done hook failed", slog.Any("err", err))
			}
		}
	})
}

func profileDurationFromEnv(env string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("panelsd: invalid env", slog.String("env", env), slog.Any("err", err))
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func sanitizeProfilePath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", errors.New("profile path is required")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return "", fmt.Errorf("profile path contains control characters: %q", path)
		}
	}
	path = userpath.ExpandUser(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve profile path %q: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create profile dir %q: %w", dir, err)
	}
	return abs, nil
}

func sanitizeDirPath(raw string) (string, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", errors.New("directory path is required")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return "", fmt.Errorf("directory path contains control characters: %q", path)
		}
	}
	path = userpath.ExpandUser(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve directory path %q: %w", path, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", abs, err)
	}
	return abs, nil
}

func writeHeapProfile(raw string) error {
	path, err := sanitizeProfilePath(raw)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Warn("panelsd: close heap profile failed", slog.Any("err", cerr))
		}
	}()
	runtime.GC()
	if err := pprof.WriteHeapProfile(file); err != nil {
		return err
	}
	slog.Info("panelsd: heap profile written", slog.String("path", path))
	return nil
}

func writeDoneMarker(raw string) error {
	path, err := sanitizeProfilePath(raw)
	if err != nil {
		return err
	}
	payload := []byte(time.Now().Format(time.RFC3339Nano) + "\n")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return err
	}
	slog.Info("panelsd: profiler done", slog.String("path", path))
	return nil
}

func envBool(name string) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func sanitizeAddr(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", errors.New("address is required")
	}
	for _, r := range value {
		if r == 0 || unicode.IsControl(r) {
			return "", fmt.Errorf("address contains control characters: %q", value)
		}
	}
	return value, nil
}

func (p *daemonProfiler) startGopsAgent() {
	opts := agent.Options{
		ShutdownCleanup: true,
	}
	if addrRaw := strings.TrimSpace(os.Getenv(gopsAddrEnv)); addrRaw != "" {
		if addr, err := sanitizeAddr(addrRaw); err == nil {
			opts.Addr = addr
		} else {
			slog.Warn("panelsd: gops addr invalid", slog.Any("err", err))
		}
	}
	if dirRaw := strings.TrimSpace(os.Getenv(gopsConfigDirEnv)); dirRaw != "" {
		if dir, err := sanitizeDirPath(dirRaw); err == nil {
			opts.ConfigDir = dir
		} else {
			slog.Warn("panelsd: gops config dir invalid", slog.Any("err", err))
		}
	}
	if err := agent.Listen(opts); err != nil {
		slog.Warn("panelsd: gops agent failed", slog.Any("err", err))
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if ctx != nil {
			return ctx.Err()
		}
		return nil
	}
	if ctx == nil {
		time.Sleep(d)
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
