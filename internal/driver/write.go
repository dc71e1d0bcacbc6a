package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// syncFile makes target hold text. It reports whether the content on disk
// differed. In check mode nothing is written.
func syncFile(target, text string, check bool) (changed bool, err error) {
	old, err := os.ReadFile(target)
	switch {
	case err == nil && bytes.Equal(old, []byte(text)):
		return false, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, err
	}
	if check {
		return true, nil
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.WriteString(text); err != nil {
		return false, err
	}
	if err = tmp.Close(); err != nil {
		return false, err
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return false, err
	}
	return true, nil
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
