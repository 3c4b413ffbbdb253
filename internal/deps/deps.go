// Package deps reports whether the external binaries asciivid shells out to
// are installed and which video encoders they provide.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names one binary asciivid runs, such as ffmpeg or ffprobe.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup result for a Requirement. Command holds the resolved
// path when the binary was found and the configured value otherwise.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Lookup resolves req on PATH (or as an explicit path).
func Lookup(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

// CheckBinaries looks up every requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = Lookup(req)
	}
	return results
}
