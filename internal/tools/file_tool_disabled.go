package tools

import "errors"

// disabledTool is a recognized capability that is permanently declined by
// policy. The model gets a clear refusal instead of an unknown-tool error,
// which stops it from retrying under different names.
type disabledTool struct {
	spec   Specification
	reason string
}

func (d disabledTool) Specification() Specification {
	return d.spec
}

func (d disabledTool) Call(_ Params) (string, error) {
	return "", errors.New(d.reason)
}

var (
	// StrReplace would edit files in place. Disabled, never attempted.
	StrReplace = disabledTool{
		spec: Specification{
			Name:        "str_replace",
			Description: "Replace text in a file. Disabled in this environment.",
			Required:    []string{"file_path", "old_str", "new_str"},
		},
		reason: "File editing is disabled in this environment for security.",
	}

	// View would read files from disk. Disabled, never attempted.
	View = disabledTool{
		spec: Specification{
			Name:        "view",
			Description: "View file contents. Disabled in this environment.",
			Required:    []string{"file_path"},
		},
		reason: "File viewing is disabled in this environment for security.",
	}

	// CreateFile would write files to disk. Disabled, never attempted.
	CreateFile = disabledTool{
		spec: Specification{
			Name:        "create_file",
			Description: "Create a file. Disabled in this environment.",
			Required:    []string{"file_path", "content"},
		},
		reason: "File creation is disabled in this environment for security.",
	}

	// BashTool would run shell commands. Disabled, never attempted.
	BashTool = disabledTool{
		spec: Specification{
			Name:        "bash_tool",
			Description: "Execute a shell command. Disabled in this environment.",
			Required:    []string{"command"},
		},
		reason: "Command execution is disabled in this environment for security.",
	}
)
