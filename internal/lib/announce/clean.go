package announce

import "strings"

// instructionCleaner case-normalizes routing provider instruction text so
// it reads naturally mid-sentence after a distance preamble. This is a
// presentation transform only; it never changes meaning.
var instructionCleaner = strings.NewReplacer(
	"Turn left", "turn left",
	"Turn right", "turn right",
	"Keep left", "keep left",
	"Keep right", "keep right",
	"Merge", "merge",
	"Take the exit", "take the exit",
	"Take exit", "take exit",
	"Continue", "continue",
	"Make a U-turn", "make a U-turn",
	"Head ", "head ",
	"You have arrived", "you have arrived",
	"Arrive", "arrive",
)

func cleanInstruction(raw string) string {
	return instructionCleaner.Replace(raw)
}
