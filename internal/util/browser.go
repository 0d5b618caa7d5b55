package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// browserCommands 按优先级返回各平台打开网址的命令
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 更稳定，失败时退回 explorer
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{browser, url})
		}
		return cmds
	}
}

// OpenBrowser 使用平台默认方式打开浏览器
func OpenBrowser(url string) error {
	cmd := browserCommands(runtime.GOOS, url)[0]
	return exec.Command(cmd[0], cmd[1:]...).Start()
}

// OpenBrowserWithFallback 依次尝试各候选命令，全部失败时返回第一个错误
func OpenBrowserWithFallback(url string) error {
	return startFirst(browserCommands(runtime.GOOS, url), func(name string, args ...string) error {
		return exec.Command(name, args...).Start()
	})
}

func startFirst(cmds [][]string, start func(name string, args ...string) error) error {
	var first error
	for _, cmd := range cmds {
		if len(cmd) == 0 {
			continue
		}
		err := start(cmd[0], cmd[1:]...)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = errors.New("no browser command available")
	}
	return first
}
