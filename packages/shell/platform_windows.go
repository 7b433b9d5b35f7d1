//go:build windows

package shell

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW  = user32.NewProc("FindWindowW")
	procFindWindowEx = user32.NewProc("FindWindowExW")
	procShowWindow   = user32.NewProc("ShowWindow")
)

const (
	swHide = 0
	swShow = 5
)

// Taskbar toggles the Windows taskbar and its Start button.
type Taskbar struct{}

// NewPlatformToggle returns the toggle for this platform.
func NewPlatformToggle() Toggle {
	return Taskbar{}
}

// SetVisible shows or hides the taskbar.
func (Taskbar) SetVisible(visible bool) bool {
	cmd := uintptr(swHide)
	if visible {
		cmd = swShow
	}

	tray := findWindow("Shell_TrayWnd")
	if tray == 0 {
		return false
	}
	procShowWindow.Call(tray, cmd)

	// The Start button is a separate window on older shells.
	if start := findChild(tray, "Button", "Start"); start != 0 {
		procShowWindow.Call(start, cmd)
	}
	return true
}

func findWindow(class string) uintptr {
	cls, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0
	}
	hwnd, _, _ := procFindWindowW.Call(uintptrOf(cls), 0)
	return hwnd
}

func findChild(parent uintptr, class, title string) uintptr {
	cls, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0
	}
	ttl, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0
	}
	hwnd, _, _ := procFindWindowEx.Call(parent, 0, uintptrOf(cls), uintptrOf(ttl))
	return hwnd
}

func uintptrOf(p *uint16) uintptr {
	return uintptr(unsafe.Pointer(p))
}
