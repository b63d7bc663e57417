package script

import (
	"fmt"
	"strings"
)

// Speaker selects which synthesized voice delivers a line.
type Speaker string

const (
	SpeakerElf   Speaker = "elf"
	SpeakerSanta Speaker = "santa"
)

// ScriptLine is one immutable line of dialogue.
type ScriptLine struct {
	Speaker Speaker
	Text    string
}

// Activity is the closed set of interactive activities a child can trigger
// during the greeting phase. Unrecognized wire values map to ActivityUnknown.
type Activity string

const (
	ActivityDecorateTree Activity = "decorate_tree"
	ActivityFeedReindeer Activity = "feed_reindeer"
	ActivityWrapPresents Activity = "wrap_presents"
	ActivityRingBells    Activity = "ring_bells"
	ActivityUnknown      Activity = "unknown"
)

// ParseActivity maps a wire activity id onto the closed enumeration.
func ParseActivity(id string) Activity {
	switch Activity(strings.ToLower(strings.TrimSpace(id))) {
	case ActivityDecorateTree:
		return ActivityDecorateTree
	case ActivityFeedReindeer:
		return ActivityFeedReindeer
	case ActivityWrapPresents:
		return ActivityWrapPresents
	case ActivityRingBells:
		return ActivityRingBells
	default:
		return ActivityUnknown
	}
}

// activityLines holds the elf's narration for each recognized activity.
var activityLines = map[Activity]string{
	ActivityDecorateTree: "Wow %s, the tree looks absolutely beautiful! Santa is going to love it!",
	ActivityFeedReindeer: "Look at that, %s! Rudolph loves the carrots! His nose is glowing extra bright!",
	ActivityWrapPresents: "Great wrapping, %s! You would make a wonderful elf helper!",
	ActivityRingBells:    "Ring-a-ling, %s! Those bells mean Santa is on his way!",
}

// activitySounds maps each recognized activity to a bundled sound effect.
// Unknown activities have no sound.
var activitySounds = map[Activity]string{
	ActivityDecorateTree: "twinkle",
	ActivityFeedReindeer: "reindeer",
	ActivityWrapPresents: "rustle",
	ActivityRingBells:    "jingle",
}

// ActivityLine returns the elf narration for an activity, with a generic
// line for unrecognized ids.
func ActivityLine(a Activity, childName string) ScriptLine {
	tmpl, ok := activityLines[a]
	if !ok {
		return ScriptLine{SpeakerElf, fmt.Sprintf("That looks like so much fun, %s! Keep going!", childName)}
	}
	return ScriptLine{SpeakerElf, fmt.Sprintf(tmpl, childName)}
}

// ActivitySound returns the sound-effect logical name for an activity,
// or "" when none exists.
func ActivitySound(a Activity) string {
	return activitySounds[a]
}

// GenderTerm maps the metadata gender onto the term Santa uses.
func GenderTerm(gender string) string {
	switch strings.ToLower(gender) {
	case "boy":
		return "boy"
	case "girl":
		return "girl"
	default:
		return "child"
	}
}

// ElfGreeting opens the call in Jingle the Elf's voice.
func ElfGreeting(childName string) ScriptLine {
	return ScriptLine{SpeakerElf, fmt.Sprintf(
		"Hello %s! I'm Jingle the Elf! Ooh, Santa is going to be SO excited to talk to you! Let me get him!",
		childName)}
}

// SantaGreeting is Santa's opening line.
func SantaGreeting(childName, gender string) ScriptLine {
	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"Ho Ho Ho! Hello %s! I've heard you've been a very good %s this year!",
		childName, GenderTerm(gender))}
}

// ActivityRecap mentions what the child did before Santa arrived. Empty
// when no activities were completed.
func ActivityRecap(activities []Activity) ScriptLine {
	var names []string
	for _, a := range activities {
		if name := activityName(a); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ScriptLine{}
	}
	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"Jingle told me you were %s! What a busy little helper you are!",
		JoinNatural(names))}
}

func activityName(a Activity) string {
	switch a {
	case ActivityDecorateTree:
		return "decorating the tree"
	case ActivityFeedReindeer:
		return "feeding the reindeer"
	case ActivityWrapPresents:
		return "wrapping presents"
	case ActivityRingBells:
		return "ringing the sleigh bells"
	default:
		return "helping out in the workshop"
	}
}

// WishesPrompt asks the child what they want.
func WishesPrompt() ScriptLine {
	return ScriptLine{SpeakerSanta, "What would you like for Christmas?"}
}

// CheckingList covers the thinking-music moment.
func CheckingList() ScriptLine {
	return ScriptLine{SpeakerSanta, "Let me check my list..."}
}

// ListResponse closes the wish-list moment, referencing the relationship.
func ListResponse(relationship string) ScriptLine {
	return ScriptLine{SpeakerSanta, fmt.Sprintf(
		"I've checked my list and you have some wonderful gifts coming! I will check with your %s to make sure everything is ready!",
		relationship)}
}

// Goodbye ends the call.
func Goodbye(childName string) ScriptLine {
	return ScriptLine{SpeakerSanta, fmt.Sprintf("Merry Christmas %s! Ho Ho Ho!", childName)}
}

// JoinNatural joins items with commas and a final "and".
func JoinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
