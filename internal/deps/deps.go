package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vjoin/internal/config"
)

// Requirement names an external binary and whether a join can go ahead
// without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup outcome for one Requirement.
type Status struct {
	Requirement
	Resolved  string
	Available bool
	Detail    string
}

// ToolRequirements lists the binaries selected by settings. ffmpeg runs the
// join and extracts thumbnails; without ffprobe files still join but list
// with file names only.
func ToolRequirements(settings config.ExecutionConfig) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     settings.ToolBinaryPath,
			Description: "joins files and extracts thumbnails",
		},
		{
			Name:        "FFprobe",
			Command:     settings.ProbeBinaryPath,
			Description: "reads titles, durations and codecs",
			Optional:    true,
		},
	}
}

// CheckBinaries resolves each requirement on PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(req))
	}
	return results
}

func check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Description = strings.TrimSpace(req.Description)
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Resolved = resolved
	status.Available = true
	return status
}
