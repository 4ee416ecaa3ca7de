package journal

// DateFormat is the calendar-day format used for entry dates and streak keys.
const DateFormat = "2006-01-02"

// Emotion labels, in canonical order. Tie-breaks in the fallback detector and
// substring matches in NormalizeLabel resolve to the first label in this list,
// so the order is part of the contract.
const (
	LabelHappy    = "Happy"
	LabelSad      = "Sad"
	LabelAngry    = "Angry"
	LabelStressed = "Stressed"
	LabelCalm     = "Calm"
)

// Labels is the fixed emotion label set in canonical order.
var Labels = []string{LabelHappy, LabelSad, LabelAngry, LabelStressed, LabelCalm}

// Entry represents one journal entry. Entries are immutable after insert and
// never deleted by the system.
type Entry struct {
	// ID is a ULID that uniquely identifies this entry
	ID string `json:"id"`

	// Date is the calendar day the entry was recorded (YYYY-MM-DD)
	Date string `json:"date"`

	// Transcription is the raw transcript text
	Transcription string `json:"transcription"`

	// Emotion is one of the fixed labels in Labels
	Emotion string `json:"emotion"`

	// Summary is a short generated or fallback summary
	Summary string `json:"summary"`

	// Reflection is the multi-line reflection text
	Reflection string `json:"reflection"`

	// CreatedAt is the Unix timestamp when the entry was recorded
	CreatedAt int64 `json:"created_at"`
}

// EntrySummary is an entry without the transcript and reflection bodies.
// Used by list views to reduce data transfer.
type EntrySummary struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Emotion   string `json:"emotion"`
	Summary   string `json:"summary"`
	CreatedAt int64  `json:"created_at"`
}

// ToSummary converts an Entry to an EntrySummary by stripping the text bodies.
func (e *Entry) ToSummary() EntrySummary {
	return EntrySummary{
		ID:        e.ID,
		Date:      e.Date,
		Emotion:   e.Emotion,
		Summary:   e.Summary,
		CreatedAt: e.CreatedAt,
	}
}

// StreakDay records how many entries were recorded on one calendar day.
// Exactly one row exists per day that had at least one entry.
type StreakDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
