package sync

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/canvasgit/canvasgit/internal/utils"
	gitignore "github.com/sabhiram/go-gitignore"
)

const ignoreFileName = ".canvasignore"

var defaultIgnoreLines = []string{
	// canvasgit control files
	".canvas/",
	".canvasignore",
	// IDE/Editor-specific
	".vscode",
	".idea",
	// General excludes
	".git",
	"*.tmp",
	"*.swp",
	// OS-specific
	".DS_Store",
	"Thumbs.db",
}

// IgnoreList filters paths out of the sync universe using gitignore-style
// rules from .canvasignore plus built-in defaults.
type IgnoreList struct {
	baseDir string
	ignore  *gitignore.GitIgnore
}

func NewIgnoreList(baseDir string) *IgnoreList {
	return &IgnoreList{baseDir: baseDir}
}

func (l *IgnoreList) Load() {
	ignorePath := filepath.Join(l.baseDir, ignoreFileName)
	ignoreLines := defaultIgnoreLines

	if utils.FileExists(ignorePath) {
		file, err := os.Open(ignorePath)
		if err != nil {
			slog.Warn("failed to open ignore file", "path", ignorePath, "error", err)
		} else {
			defer file.Close()
			rules := 0
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if line != "" {
					ignoreLines = append(ignoreLines, line)
					rules++
				}
			}
			if err := scanner.Err(); err != nil {
				slog.Warn("error reading ignore file", "path", ignorePath, "error", err)
			} else {
				slog.Debug("loaded ignore file", "path", ignorePath, "rules", rules)
			}
		}
	}

	l.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
}

func (l *IgnoreList) ShouldIgnore(relPath string) bool {
	if l.ignore == nil {
		l.Load()
	}
	return l.ignore.MatchesPath(relPath)
}
