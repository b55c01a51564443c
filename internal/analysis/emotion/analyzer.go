package emotion

import (
	"strings"

	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

// keywordBuckets maps each native classifier label to surface cues. Scoring is
// additive per hit so longer messages with repeated cues score higher.
var keywordBuckets = map[emotion.NativeLabel][]string{
	emotion.NativeJoy: {
		"happy", "glad", "excited", "great", "wonderful", "amazing", "love",
		"joy", "pleased", "delighted", "thrilled", "awesome", "thank you",
		"thanks", "proud", "relieved",
	},
	emotion.NativeSadness: {
		"sad", "unhappy", "down", "cry", "crying", "lonely", "alone", "miss",
		"hurt", "grief", "loss", "lost", "heartbroken", "hopeless", "empty",
		"worthless", "numb", "depress",
	},
	emotion.NativeAnger: {
		"angry", "mad", "furious", "rage", "hate", "annoyed", "pissed",
		"irritated", "livid", "fed up", "sick of", "unfair",
	},
	emotion.NativeFear: {
		"anxious", "worried", "nervous", "panic", "scared", "afraid", "fear",
		"stress", "stressed", "overthink", "overwhelm", "dread", "can't sleep",
	},
	emotion.NativeSurprise: {
		"surprised", "shocked", "sudden", "unexpected", "out of nowhere",
		"can't believe", "didn't see", "wow",
	},
	emotion.NativeDisgust: {
		"disgust", "gross", "awful", "terrible", "horrible", "sick to",
		"revolting", "ashamed",
	},
}

const hitWeight = 3

// Score produces a probability distribution over the native label set from a
// plain keyword scan. Blank or cue-free text yields a uniform distribution so
// callers see a valid low-confidence result rather than an error.
func Score(text string) map[emotion.NativeLabel]float64 {
	scores := make(map[emotion.NativeLabel]float64, len(emotion.Native))
	normalized := strings.ToLower(strings.TrimSpace(text))

	if normalized != "" {
		for label, keywords := range keywordBuckets {
			for _, word := range keywords {
				if strings.Contains(normalized, word) {
					scores[label] += hitWeight
				}
			}
		}
		if exclamations := strings.Count(text, "!"); exclamations > 0 {
			scores[emotion.NativeJoy] += float64(exclamations)
			scores[emotion.NativeSurprise] += float64(exclamations)
		}
	}

	var total float64
	for _, s := range scores {
		total += s
	}
	if total == 0 {
		uniform := 1.0 / float64(len(emotion.Native))
		for _, label := range emotion.Native {
			scores[label] = uniform
		}
		return scores
	}

	for _, label := range emotion.Native {
		scores[label] = scores[label] / total
	}
	return scores
}
