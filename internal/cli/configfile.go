package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LoadConfigArgs reads a .ggreprc file and returns the flags it holds.
// Location: GGREP_CONFIG_PATH env var, else ~/.ggreprc. One flag per line, '#'
// comments, blank lines ignored. Returns nil if no file is found — this
// is additive convenience, so its absence is never an error.
func LoadConfigArgs() []string {
	path := os.Getenv("GGREP_CONFIG_PATH")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".ggreprc")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var args []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	return args
}
