package model

// ArtifactKind classifies a file on disk
type ArtifactKind string

const (
	KindUnknown   ArtifactKind = ""
	KindVideo     ArtifactKind = "Video"
	KindMusic     ArtifactKind = "Music"
	KindText      ArtifactKind = "Text"
	KindThumbnail ArtifactKind = "Thumbnail"
)

// IsListable reports whether files of this kind get their own catalog row
func (k ArtifactKind) IsListable() bool {
	return k == KindVideo || k == KindMusic || k == KindText
}

// KindFilter restricts visible catalog rows by artifact kind
type KindFilter string

const (
	FilterAll   KindFilter = "ALL"
	FilterVideo KindFilter = KindFilter(KindVideo)
	FilterMusic KindFilter = KindFilter(KindMusic)
	FilterText  KindFilter = KindFilter(KindText)
)

// KindFilters lists filters in menu order
func KindFilters() []KindFilter {
	return []KindFilter{FilterAll, FilterVideo, FilterMusic, FilterText}
}

// Matches reports whether a row of the given kind passes the filter
func (f KindFilter) Matches(kind ArtifactKind) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return ArtifactKind(f) == kind
}

// ArtifactGroup is the set of files sharing a stem in one directory
type ArtifactGroup struct {
	Dir        string
	Stem       string
	Media      string
	Audio      string
	Transcript string
	Thumbnail  string
	URL        string
}

// Paths returns the known member paths, primary media first
func (g ArtifactGroup) Paths() []string {
	paths := make([]string, 0, 4)
	for _, p := range []string{g.Media, g.Audio, g.Transcript, g.Thumbnail} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// IsEmpty reports whether no member path is known
func (g ArtifactGroup) IsEmpty() bool {
	return len(g.Paths()) == 0
}
