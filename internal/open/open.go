package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OpenFile opens path in editor positioned at line (1 when line < 1).
func OpenFile(editor, path string, line int) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	if line < 1 {
		line = 1
	}

	cmd := editorCommand(editor, path, line)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// editorCommand builds the invocation for the editors that understand a
// line argument. Others just get the file.
func editorCommand(editor, path string, line int) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"less"}
	}
	name, extra := fields[0], fields[1:]
	args := append([]string{}, extra...)

	switch base := filepath.Base(name); {
	case strings.Contains(base, "vim") || base == "vi" || base == "nano" || base == "less" || base == "emacs":
		args = append(args, "+"+strconv.Itoa(line), path)
	case strings.Contains(base, "code") || strings.Contains(base, "cursor"):
		args = append(args, "--goto", path+":"+strconv.Itoa(line))
	case base == "subl" || base == "zed":
		args = append(args, path+":"+strconv.Itoa(line))
	default:
		args = append(args, path)
	}
	return exec.Command(name, args...)
}
