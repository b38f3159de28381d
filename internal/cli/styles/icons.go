package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGo        = "\ue627" // go gopher
	IconGithub    = "\uf09b" // github
	IconHeart     = "\uf004" // heart

	IconCheck  = "\uf00c" // check
	IconX      = "\uf00d" // x
	IconInfo   = "\uf05a" // info
	IconConfig = "\ue615" // config
	IconSearch = "\uf002" // magnifier
	IconGlobe  = "\uf0ac" // browser/web
	IconCursor = "\uf054" // chevron-right
	IconGear   = "\uf013" // gear
	IconKey    = "\uf084" // key

	IconCheckboxEmpty   = "\uf096" // unchecked
	IconCheckboxChecked = "\uf046" // checked
)
