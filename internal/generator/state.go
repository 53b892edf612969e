package generator

// State is a point reached by a generation run.
type State int

const (
	Validating State = iota
	ManifestWritten
	ToolchainChecked
	RepoInitialized
	DevDepsInstalled
	FlavorDepsInstalled
	TemplatesWritten
	Committed
	Done
)

var stateNames = [...]string{
	Validating:          "Validating",
	ManifestWritten:     "ManifestWritten",
	ToolchainChecked:    "ToolchainChecked",
	RepoInitialized:     "RepoInitialized",
	DevDepsInstalled:    "DevDepsInstalled",
	FlavorDepsInstalled: "FlavorDepsInstalled",
	TemplatesWritten:    "TemplatesWritten",
	Committed:           "Committed",
	Done:                "Done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}
