package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirChecker verifies that a directory exists, or can be created, and is writable.
type DirChecker struct {
	name string
	dir  string
}

// NewDirChecker checks dir under the given check name.
func NewDirChecker(name, dir string) *DirChecker {
	return &DirChecker{name: name, dir: dir}
}

// Name returns the name of this health check.
func (c *DirChecker) Name() string {
	return c.name
}

// Check implements Checker.
func (c *DirChecker) Check(ctx context.Context) *Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy(err.Error())
	}
	if c.dir == "" {
		return Unhealthy("no directory configured")
	}

	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		return Unhealthy(fmt.Sprintf("cannot create %s", c.dir)).WithDetail("error", err.Error())
	}

	probe, err := os.CreateTemp(c.dir, ".health-*")
	if err != nil {
		return Unhealthy(fmt.Sprintf("%s is not writable", c.dir)).WithDetail("error", err.Error())
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	abs, err := filepath.Abs(c.dir)
	if err != nil {
		abs = c.dir
	}
	return Healthy(fmt.Sprintf("%s is writable", c.dir)).WithDetail("path", abs)
}
