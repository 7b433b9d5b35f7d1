package session

import "os"

// FolderValidator decides whether output can be written to a directory.
type FolderValidator interface {
	IsWritableDirectory(path string) bool
}

// OSFolderValidator checks a directory by creating a temporary file in it.
type OSFolderValidator struct{}

func (OSFolderValidator) IsWritableDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.CreateTemp(path, ".shotlog-write-check-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
