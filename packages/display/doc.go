// Package display enumerates the physical displays attached to the machine
// and exposes their geometry in virtual-desktop coordinates.
package display
