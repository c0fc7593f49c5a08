package ingest

// SlideDir is one slide_<N> folder found under a category root.
type SlideDir struct {
	Path   string
	Number int
}

// DirStats summarizes a category scan.
type DirStats struct {
	Scanned uint32 // directory entries seen
	Matched uint32 // slide folders returned
	Skipped uint32 // files and non-matching folders
}

// Validation is the image validator verdict. Reason is set only when Valid is false.
type Validation struct {
	Valid  bool
	Reason string
}
