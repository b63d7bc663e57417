package script

import (
	"fmt"
	"strings"
)

// Letter holds a child's letter to Santa fetched before the call.
type Letter struct {
	Behavior  string   `json:"behavior"`
	NiceThing string   `json:"niceThing"`
	Wishes    []string `json:"wishes"`
	Snack     string   `json:"snack"`
}

// behaviorTexts maps behavior codes to the friendly phrasing Santa uses.
var behaviorTexts = map[string]string{
	"super_good":  "super duper good",
	"pretty_good": "pretty good",
	"mostly_good": "mostly good",
}

// snackTexts maps snack codes to the friendly phrasing Santa uses.
var snackTexts = map[string]string{
	"cookies":              "cookies",
	"mince_pies":           "mince pies",
	"carrots_for_reindeer": "carrots for my reindeer",
}

// FormatBehavior converts a behavior code to friendly text, falling back
// to "good" for unrecognized codes.
func FormatBehavior(behavior string) string {
	if text, ok := behaviorTexts[behavior]; ok {
		return text
	}
	return "good"
}

// FormatSnack converts a snack code to friendly text, falling back to
// "cookies" for unrecognized codes.
func FormatSnack(snack string) string {
	if text, ok := snackTexts[snack]; ok {
		return text
	}
	return "cookies"
}

// ElfLetterNotice is the elf noticing the letter arrived.
func ElfLetterNotice(childName string) ScriptLine {
	return ScriptLine{SpeakerElf, fmt.Sprintf(
		"Oh wait! I just received a special letter! Is this from... %s? Let me make sure Santa sees this right away!",
		childName)}
}

// SantaLetterIntro is Santa acknowledging the letter.
func SantaLetterIntro(letter *Letter, childName string) ScriptLine {
	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"I just read your wonderful letter, %s! You said you've been %s this year!",
		childName, FormatBehavior(letter.Behavior))}
}

// SantaNiceThing mentions the child's good deed. Empty line when the
// letter has none.
func SantaNiceThing(letter *Letter) ScriptLine {
	if letter.NiceThing == "" {
		return ScriptLine{}
	}
	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"I was so happy to hear that you %s. That was very kind of you, and I've added extra stars to your name on my Nice List!",
		letter.NiceThing)}
}

// SantaWishes mentions at most the first two non-empty wishes. Empty line
// when the letter lists none.
func SantaWishes(letter *Letter) ScriptLine {
	var valid []string
	for _, w := range letter.Wishes {
		if strings.TrimSpace(w) != "" {
			valid = append(valid, w)
			if len(valid) == 2 {
				break
			}
		}
	}

	var wishesText string
	switch len(valid) {
	case 0:
		return ScriptLine{}
	case 1:
		wishesText = valid[0]
	default:
		wishesText = valid[0] + " and " + valid[1]
	}

	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"Now, I see you would really love a %s! Those are wonderful wishes! I'll see what I can do!",
		wishesText)}
}

// SantaSnackThanks thanks the child for the snack.
func SantaSnackThanks(letter *Letter) ScriptLine {
	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"And thank you for leaving out %s for me! I do get very hungry on Christmas Eve!",
		FormatSnack(letter.Snack))}
}
