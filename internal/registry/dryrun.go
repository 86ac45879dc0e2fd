package registry

import (
	"fmt"
	"io"
)

// DryRun is a registrar that prints each manifest path instead of recording it.
type DryRun struct {
	w     io.Writer
	count int
}

// NewDryRun returns a DryRun writing to w.
func NewDryRun(w io.Writer) *DryRun {
	return &DryRun{w: w}
}

// Register prints manifestPath on its own line.
func (d *DryRun) Register(manifestPath string) error {
	if _, err := fmt.Fprintf(d.w, "would register %s\n", manifestPath); err != nil {
		return err
	}
	d.count++
	return nil
}

// Count returns how many paths were printed.
func (d *DryRun) Count() int { return d.count }
