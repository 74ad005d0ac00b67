package mode

// Mode is how a page of results was produced.
type Mode string

// Search mode constants.
const (
	// Ranked orders matches by relevance score.
	Ranked Mode = "ranked"
	// Shuffle lists the whole corpus in random order (blank query).
	Shuffle Mode = "shuffle"
)
