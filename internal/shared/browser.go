package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// launcherArgs returns the command line that opens a URL on the given
// platform, or nil when no launcher is known for it.
func launcherArgs(goos, url string) []string {
	switch goos {
	case "darwin":
		return []string{"open", url}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open", url}
	}
	return nil
}

// OpenBrowser launches the default browser at url without waiting for it to
// exit. The caller prints the URL as a fallback when this fails.
func OpenBrowser(url string) error {
	args := launcherArgs(runtime.GOOS, url)
	if args == nil {
		return fmt.Errorf("no known browser launcher for %s", runtime.GOOS)
	}

	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}

	return cmd.Process.Release()
}
