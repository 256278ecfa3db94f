// Package deps checks for the external programs darkroom shells out to.
package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"darkroom/internal/services"
)

// Requirement names an external program and what it is needed for.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// HostExport lists what --use-photos-export needs.
func HostExport(binary string) []Requirement {
	return []Requirement{{
		Name:        "osascript",
		Command:     binary,
		Description: "drives the Photos application for host exports",
	}}
}

// CheckBinaries evaluates each requirement against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch path, err := exec.LookPath(req.Command); {
		case req.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		default:
			status.Path = path
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// Require fails with services.ErrConfiguration listing every missing,
// non-optional requirement.
func Require(requirements []Requirement) error {
	var missing []error
	for _, status := range CheckBinaries(requirements) {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, fmt.Errorf("%s (%s): %s", status.Name, status.Description, status.Detail))
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "deps", "preflight", "", errors.Join(missing...))
}
