package contracts

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const modulePath = "github.com/nano-interactive/go-amqp-contracts"

// HostInfo describes the process a message was produced on.
type HostInfo interface {
	GetMachineName() string
	GetProcessName() string
	GetProcessID() int
	GetModule() string
	GetModuleVersion() string
	GetRuntimeVersion() string
	GetLibraryVersion() string
	GetOperatingSystemVersion() string
}

type BusHostInfo struct {
	MachineName            string `json:"machineName"`
	ProcessName            string `json:"processName"`
	Module                 string `json:"module"`
	ModuleVersion          string `json:"moduleVersion"`
	RuntimeVersion         string `json:"runtimeVersion"`
	LibraryVersion         string `json:"libraryVersion"`
	OperatingSystemVersion string `json:"operatingSystemVersion"`
	ProcessID              int    `json:"processId"`
}

var currentHost = sync.OnceValue(NewBusHostInfo)

// CurrentHost returns a copy of the host information collected for this
// process on first use.
func CurrentHost() *BusHostInfo {
	h := *currentHost()
	return &h
}

// NewBusHostInfo collects host and build metadata of the running process.
func NewBusHostInfo() *BusHostInfo {
	h := &BusHostInfo{
		ProcessID:              os.Getpid(),
		ProcessName:            processName(),
		RuntimeVersion:         runtime.Version(),
		OperatingSystemVersion: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if name, err := os.Hostname(); err == nil {
		h.MachineName = name
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		h.Module = info.Main.Path
		h.ModuleVersion = info.Main.Version

		if info.Main.Path == modulePath {
			h.LibraryVersion = info.Main.Version
		}

		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				h.LibraryVersion = dep.Version
				break
			}
		}
	}

	return h
}

func processName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		if len(os.Args) == 0 {
			return "unknown"
		}
		exe = os.Args[0]
	}

	return strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
}

func (h *BusHostInfo) GetMachineName() string            { return h.MachineName }
func (h *BusHostInfo) GetProcessName() string            { return h.ProcessName }
func (h *BusHostInfo) GetProcessID() int                 { return h.ProcessID }
func (h *BusHostInfo) GetModule() string                 { return h.Module }
func (h *BusHostInfo) GetModuleVersion() string          { return h.ModuleVersion }
func (h *BusHostInfo) GetRuntimeVersion() string         { return h.RuntimeVersion }
func (h *BusHostInfo) GetLibraryVersion() string         { return h.LibraryVersion }
func (h *BusHostInfo) GetOperatingSystemVersion() string { return h.OperatingSystemVersion }

func hostOrNil(h *BusHostInfo) HostInfo {
	if h == nil {
		return nil
	}

	return h
}
