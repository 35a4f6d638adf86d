//go:build linux

package process

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// Process is an open target process. On Linux it also covers Windows clients running under Wine,
// whose images appear as file mappings of the process.
type Process struct {
	mu   sync.RWMutex
	pid  int
	proc procfs.Proc
	open bool
}

// Open attaches to pid. Reads need ptrace access to the target.
func Open(pid int) (*Process, error) {
	proc, err := procfs.NewProc(pid)
	if err != nil {
		return nil, fmt.Errorf("%w: pid %d: %v", ErrProcessNotFound, pid, err)
	}
	return &Process{pid: pid, proc: proc, open: true}, nil
}

// FindProcess returns the pid of the first process whose command or executable is name.
func FindProcess(name string) (int, error) {
	procs, err := procfs.AllProcs()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}
	for _, p := range procs {
		if comm, err := p.Comm(); err == nil && sameName(comm, name) {
			return p.PID, nil
		}
		if args, err := p.CmdLine(); err == nil && len(args) > 0 && sameName(baseName(args[0]), name) {
			return p.PID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
}

// baseName handles both slash and backslash separated paths.
func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func (p *Process) PID() int { return p.pid }

// ReadMemory copies target memory at addr into data.
func (p *Process) ReadMemory(addr uint64, data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.open {
		return 0, ErrProcessNotOpen
	}
	if len(data) == 0 {
		return 0, nil
	}
	local := []unix.Iovec{{Base: (*byte)(unsafe.Pointer(&data[0]))}}
	local[0].SetLen(len(data))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(data)}}
	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		if errors.Is(err, unix.EFAULT) {
			return 0, fmt.Errorf("%w: 0x%x", ErrAddressNotMapped, addr)
		}
		return 0, fmt.Errorf("read 0x%x: %w", addr, err)
	}
	return n, nil
}

// Module returns the extent of the image named name, spanning every mapping of its file.
func (p *Process) Module(name string) (Module, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.open {
		return Module{}, ErrProcessNotOpen
	}
	maps, err := p.proc.ProcMaps()
	if err != nil {
		return Module{}, fmt.Errorf("read maps: %w", err)
	}
	var mod Module
	for _, m := range maps {
		if m.Pathname == "" || !sameName(filepath.Base(m.Pathname), name) {
			continue
		}
		start, end := uint64(m.StartAddr), uint64(m.EndAddr)
		if mod.Path == "" {
			mod = Module{Name: name, Path: m.Pathname, Base: start, Size: end - start}
			continue
		}
		if m.Pathname != mod.Path {
			continue
		}
		if start < mod.Base {
			mod.Size += mod.Base - start
			mod.Base = start
		}
		if end > mod.End() {
			mod.Size = end - mod.Base
		}
	}
	if mod.Path == "" {
		return Module{}, fmt.Errorf("%w: %s in pid %d", ErrModuleNotFound, name, p.pid)
	}
	return mod, nil
}

func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	return nil
}
