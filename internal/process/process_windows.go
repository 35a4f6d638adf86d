//go:build windows

package process

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Process is an open target process.
type Process struct {
	mu     sync.RWMutex
	pid    int
	handle windows.Handle
}

// Open attaches to pid with read access.
func Open(pid int) (*Process, error) {
	h, err := windows.OpenProcess(windows.PROCESS_VM_READ|windows.PROCESS_QUERY_INFORMATION, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("%w: pid %d: %v", ErrProcessNotFound, pid, err)
	}
	return &Process{pid: pid, handle: h}, nil
}

// FindProcess returns the pid of the first process whose executable is name.
func FindProcess(name string) (int, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0, fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err = windows.Process32First(snap, &pe); err == nil; err = windows.Process32Next(snap, &pe) {
		if sameName(windows.UTF16ToString(pe.ExeFile[:]), name) {
			return int(pe.ProcessID), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrProcessNotFound, name)
}

func (p *Process) PID() int { return p.pid }

// ReadMemory copies target memory at addr into data.
func (p *Process) ReadMemory(addr uint64, data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.handle == 0 {
		return 0, ErrProcessNotOpen
	}
	if len(data) == 0 {
		return 0, nil
	}
	var read uintptr
	err := windows.ReadProcessMemory(p.handle, uintptr(addr), &data[0], uintptr(len(data)), &read)
	if err != nil {
		if errors.Is(err, windows.ERROR_PARTIAL_COPY) && read > 0 {
			return int(read), nil
		}
		if errors.Is(err, windows.ERROR_PARTIAL_COPY) || errors.Is(err, windows.ERROR_NOACCESS) {
			return 0, fmt.Errorf("%w: 0x%x", ErrAddressNotMapped, addr)
		}
		return 0, fmt.Errorf("read 0x%x: %w", addr, err)
	}
	return int(read), nil
}

// Module returns the image named name.
func (p *Process) Module(name string) (Module, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(p.pid))
	if err != nil {
		return Module{}, fmt.Errorf("module snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var me windows.ModuleEntry32
	me.Size = uint32(unsafe.Sizeof(me))
	for err = windows.Module32First(snap, &me); err == nil; err = windows.Module32Next(snap, &me) {
		if sameName(windows.UTF16ToString(me.Module[:]), name) {
			return Module{
				Name: name,
				Path: windows.UTF16ToString(me.ExePath[:]),
				Base: uint64(me.ModBaseAddr),
				Size: uint64(me.ModBaseSize),
			}, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s in pid %d", ErrModuleNotFound, name, p.pid)
}

func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(p.handle)
	p.handle = 0
	return err
}
