package walker

// Ancestry is a linked chain of (device, inode) frames from the
// recursion root down to the current directory, used to detect symlink
// and hard-link cycles the way grep.c's grepdir does. Without this, a
// symlink loop on a real filesystem would recurse forever.
type Ancestry struct {
	Device uint64
	Inode  uint64
	Parent *Ancestry
}

// hasLoop reports whether (device, inode) already appears somewhere in
// the ancestry chain, starting from a (possibly nil) frame.
func hasLoop(a *Ancestry, device, inode uint64) bool {
	for f := a; f != nil; f = f.Parent {
		if f.Device == device && f.Inode == inode {
			return true
		}
	}
	return false
}

// Status mirrors the combined per-scan status convention used throughout
// the program: 0 means at least one match, 1 means no match, 2 means an
// error occurred.
type Status int

const (
	StatusMatch   Status = 0
	StatusNoMatch Status = 1
	StatusError   Status = 2
)

// combine folds a child's status into a running total: fatal beats
// everything, otherwise a match beats no-match.
func combine(running, child Status) Status {
	if running == StatusError || child == StatusError {
		return StatusError
	}
	if running == StatusMatch || child == StatusMatch {
		return StatusMatch
	}
	return StatusNoMatch
}

// Walker recurses a directory tree one directory at a time, dispatching
// each child back to the caller through Visit. It never opens or reads
// file content itself — that stays in the file driver — so scanning a
// tree of directories never touches the page buffer.
type Walker struct {
	// Visit is called once per child path, given the ancestry frame for
	// the directory dirPath itself (not the child). It returns a Status
	// the same way a leaf file scan or a nested Walk call would.
	Visit func(childPath string, dirFrame *Ancestry) Status

	// Warn reports a non-fatal diagnostic — currently only loop
	// detection — as a single
	// "prog: warning: path: recursive directory loop" line.
	Warn func(path string)
}

// Walk processes directory dirPath. device and inode are dirPath's own
// identity (the caller has already stat'd it to decide to recurse).
// parent is the ancestry frame of dirPath's parent directory, or nil at
// the recursion root.
func (w *Walker) Walk(dirPath string, device, inode uint64, parent *Ancestry) Status {
	if hasLoop(parent, device, inode) {
		w.Warn(dirPath)
		return StatusNoMatch
	}

	children, err := enumerateDir(dirPath)
	if err != nil {
		return StatusError
	}

	frame := &Ancestry{Device: device, Inode: inode, Parent: parent}

	status := StatusNoMatch
	for _, child := range children {
		status = combine(status, w.Visit(joinPath(dirPath, child.Name), frame))
	}
	return status
}

// joinPath concatenates a directory and entry name with a single
// separator, omitting it when dirPath already ends in one (the root
// directory case).
func joinPath(dirPath, name string) string {
	if dirPath == "" || dirPath[len(dirPath)-1] == '/' {
		return dirPath + name
	}
	return dirPath + "/" + name
}
