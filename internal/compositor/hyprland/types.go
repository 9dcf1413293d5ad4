package hyprland

// Shapes of the `j/<query>` replies, trimmed to the fields limbo reads.

type workspaceRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type monitor struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Focused         bool         `json:"focused"`
	Disabled        bool         `json:"disabled"`
	ActiveWorkspace workspaceRef `json:"activeWorkspace"`
}

type client struct {
	Address   string       `json:"address"`
	Mapped    bool         `json:"mapped"`
	Workspace workspaceRef `json:"workspace"`
	Floating  bool         `json:"floating"`
	Class     string       `json:"class"`
}

type workspace struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
	Windows int    `json:"windows"`
}

type workspaceRule struct {
	WorkspaceString string `json:"workspaceString"`
	Monitor         string `json:"monitor"`
}

// Version is the reply of `j/version`.
type Version struct {
	Branch string `json:"branch"`
	Commit string `json:"commit"`
	Tag    string `json:"tag"`
}
