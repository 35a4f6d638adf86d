//go:build !linux && !windows

package process

// Process is unavailable on this platform.
type Process struct{}

func Open(pid int) (*Process, error) { return nil, ErrUnsupported }

func FindProcess(name string) (int, error) { return 0, ErrUnsupported }

func (p *Process) PID() int { return 0 }

func (p *Process) ReadMemory(addr uint64, data []byte) (int, error) { return 0, ErrUnsupported }

func (p *Process) Module(name string) (Module, error) { return Module{}, ErrUnsupported }

func (p *Process) Close() error { return nil }
