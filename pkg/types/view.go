package types

// View declares that a use case is projected into Markdown under a given
// methodology at a given level. Views are ordered by insertion and unique
// by methodology within a use case.
type View struct {
	Methodology string
	Level       string
}
