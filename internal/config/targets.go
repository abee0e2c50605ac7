package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadTargetsFile reads a target list: one MAC address or host alias per
// line. Blank lines and lines starting with '#' or '//' are skipped.
// Whether the remaining lines actually parse is decided by the caller, so
// one bad line never hides the rest of the file.
func ReadTargetsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}

	return targets, nil
}
