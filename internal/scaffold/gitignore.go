package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureGitignore appends each line to root/.gitignore unless it is already
// present. The file is created if missing.
func EnsureGitignore(root string, lines []string) error {
	gitignorePath := filepath.Join(root, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var missing []string
	for _, l := range lines {
		if !present[l] {
			present[l] = true
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	// Ensure there's a newline before our addition.
	suffix := strings.Join(missing, "\n") + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return fmt.Errorf("writing to .gitignore: %w", err)
	}
	return nil
}
