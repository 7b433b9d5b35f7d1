//go:build !windows

package shell

// NewPlatformToggle returns the toggle for this platform.
func NewPlatformToggle() Toggle {
	return Unsupported{}
}
