package pipeline

// State is a step of one pipeline run.
type State int

const (
	Idle State = iota
	Identifying
	IdentificationFailed
	Identified
	EnrichingLyrics
	LyricsUnavailable
	LyricsFound
	EnrichingRecommendations
	Done
	Failed
)

var stateNames = map[State]string{
	Idle:                     "idle",
	Identifying:              "identifying",
	IdentificationFailed:     "identification_failed",
	Identified:               "identified",
	EnrichingLyrics:          "enriching_lyrics",
	LyricsUnavailable:        "lyrics_unavailable",
	LyricsFound:              "lyrics_found",
	EnrichingRecommendations: "enriching_recommendations",
	Done:                     "done",
	Failed:                   "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == Done || s == IdentificationFailed || s == Failed
}

// Observer is notified of every state a run enters, in order, on the
// goroutine running the pipeline.
type Observer func(State)
