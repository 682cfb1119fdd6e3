// Package gitpath contains consts and helpers describing the layout of
// a MagicRepos control directory (the ".magicrepos" folder in a working
// copy, or "{owner}/{repo}.mr" on the server).
package gitpath

// Control directory layout, relative to the control directory root.
const (
	DotDirName      = ".magicrepos"
	HeadPath        = "HEAD"
	ConfigPath      = "config"
	IndexPath       = "index"
	DescriptionPath = "description"
	ObjectsPath     = "objects"
	RefsPath        = "refs"
	RefsHeadsPath   = RefsPath + "/heads"
	RefsTagsPath    = RefsPath + "/tags"
	RefsRemotesPath = RefsPath + "/remotes"
)

// BareSuffix is appended to a repo name to form its server-side
// directory name, e.g. "owner/repo.mr".
const BareSuffix = ".mr"
