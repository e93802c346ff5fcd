// Package achievement maps cumulative member stats to milestone unlocks.
// Evaluation is a pure function: definitions are independent of each other
// and the result does not depend on evaluation order.
package achievement

// Axis is the single stat dimension an achievement is measured on.
type Axis string

const (
	AxisTranslations Axis = "translations"
	AxisStreak       Axis = "streak"
	AxisCharacters   Axis = "characters"
)

// Definition is one achievement: an id, one axis, and the threshold the
// axis value must meet or exceed.
type Definition struct {
	ID        string
	Name      string
	Axis      Axis
	Threshold int64
}

// Stats is the post-update snapshot an evaluation runs against.
type Stats struct {
	Translations int64
	Streak       int64
	Characters   int64
}

func (s Stats) value(axis Axis) int64 {
	switch axis {
	case AxisTranslations:
		return s.Translations
	case AxisStreak:
		return s.Streak
	case AxisCharacters:
		return s.Characters
	default:
		return 0
	}
}

// Evaluate returns the ids of definitions that are not yet unlocked and
// whose axis value meets the threshold. The returned order follows defs.
func Evaluate(defs []Definition, unlocked []string, stats Stats) []string {
	have := make(map[string]struct{}, len(unlocked))
	for _, id := range unlocked {
		have[id] = struct{}{}
	}

	var newly []string
	for _, d := range defs {
		if _, ok := have[d.ID]; ok {
			continue
		}
		if stats.value(d.Axis) >= d.Threshold {
			newly = append(newly, d.ID)
		}
	}
	return newly
}

// Catalog returns the built-in achievement definitions.
func Catalog() []Definition {
	return []Definition{
		{ID: "first_words", Name: "First Words", Axis: AxisTranslations, Threshold: 1},
		{ID: "conversationalist", Name: "Conversationalist", Axis: AxisTranslations, Threshold: 50},
		{ID: "polyglot", Name: "Polyglot", Axis: AxisTranslations, Threshold: 500},
		{ID: "interpreter", Name: "Interpreter", Axis: AxisTranslations, Threshold: 5_000},
		{ID: "three_day_streak", Name: "Warming Up", Axis: AxisStreak, Threshold: 3},
		{ID: "week_streak", Name: "Week Streak", Axis: AxisStreak, Threshold: 7},
		{ID: "month_streak", Name: "Month Streak", Axis: AxisStreak, Threshold: 30},
		{ID: "century_streak", Name: "Centurion", Axis: AxisStreak, Threshold: 100},
		{ID: "wordsmith", Name: "Wordsmith", Axis: AxisCharacters, Threshold: 10_000},
		{ID: "novelist", Name: "Novelist", Axis: AxisCharacters, Threshold: 100_000},
		{ID: "librarian", Name: "Librarian", Axis: AxisCharacters, Threshold: 1_000_000},
	}
}

// ByID returns the definition for an id, for notice rendering.
func ByID(id string) (Definition, bool) {
	for _, d := range Catalog() {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
