package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	errProfileCooldown = errors.New("profile capture on cooldown")
	errProfileBusy     = errors.New("profile capture already running")
)

// Profiler captures a CPU profile and an execution trace when the frame rate drops
type Profiler struct {
	mu              sync.Mutex
	busy            bool
	lastCapture     time.Time
	cooldown        time.Duration
	dir             string
	captureDuration time.Duration
	log             *zap.Logger

	// wg tracks running captures so Close can wait for files to be written
	wg sync.WaitGroup
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, captureDuration time.Duration, log *zap.Logger) *Profiler {
	return &Profiler{
		cooldown:        10 * time.Second,
		dir:             dir,
		captureDuration: captureDuration,
		log:             log,
	}
}

// Capture starts a background capture labelled with reason.
// It refuses to run while another capture is active or within the cooldown.
func (p *Profiler) Capture(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.busy {
		return errProfileBusy
	}
	if !p.lastCapture.IsZero() && time.Since(p.lastCapture) < p.cooldown {
		return errProfileCooldown
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}

	p.busy = true
	p.lastCapture = time.Now()
	baseName := fmt.Sprintf("fps-drop-%s-%s", p.lastCapture.Format("20060102-150405"), reason)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.busy = false
			p.mu.Unlock()
		}()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := p.captureCPU(baseName); err != nil {
				p.log.Warn("cpu profile failed", zap.Error(err))
			}
		}()
		go func() {
			defer wg.Done()
			if err := p.captureTrace(baseName); err != nil {
				p.log.Warn("trace failed", zap.Error(err))
			}
		}()
		wg.Wait()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		p.log.Info("profile captured",
			zap.String("profile", filepath.Join(p.dir, baseName+".cpu.prof")),
			zap.Uint64("heap_alloc_kb", m.HeapAlloc/1024),
			zap.Uint32("num_gc", m.NumGC),
		)
	}()
	return nil
}

func (p *Profiler) captureCPU(baseName string) error {
	f, err := os.Create(filepath.Join(p.dir, baseName+".cpu.prof"))
	if err != nil {
		return fmt.Errorf("create profile file: %w", err)
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("start cpu profile: %w", err)
	}
	time.Sleep(p.captureDuration)
	pprof.StopCPUProfile()
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	f, err := os.Create(filepath.Join(p.dir, baseName+".trace"))
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer f.Close()

	if err := trace.Start(f); err != nil {
		return fmt.Errorf("start trace: %w", err)
	}
	time.Sleep(p.captureDuration)
	trace.Stop()
	return nil
}

// Busy reports whether a capture is running
func (p *Profiler) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Close waits for a running capture to finish
func (p *Profiler) Close() {
	p.wg.Wait()
}
