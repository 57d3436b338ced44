// Package browser opens the console in the user's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// launcher starts external commands; swapped out in tests.
type launcher interface {
	Start(name string, args ...string) error
}

type execLauncher struct{}

func (execLauncher) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultLauncher launcher = execLauncher{}

// Open opens url in the platform's default browser. The command is
// started and not waited on.
func Open(url string) error {
	return open(url, defaultLauncher, runtime.GOOS)
}

func open(url string, l launcher, goos string) error {
	switch goos {
	case "linux":
		return l.Start("xdg-open", url)
	case "darwin":
		return l.Start("open", url)
	case "windows":
		return l.Start("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", goos)
	}
}
