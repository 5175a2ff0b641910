package fileremover

import "os"

// FileRemover ...
type FileRemover interface {
	Remove(name string) error
	RemoveAll(path string) error
}

type fileRemover struct{}

// NewFileRemover ...
func NewFileRemover() FileRemover {
	return fileRemover{}
}

// Remove deletes a single file, used for the previous summary artifact.
func (r fileRemover) Remove(name string) error {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes a collected report tree.
func (r fileRemover) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
