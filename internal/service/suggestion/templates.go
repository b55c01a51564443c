package suggestion

import (
	"strings"

	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

// ruleTemplate is one canned reply variant. Variants with keywords are
// sub-selected by scanning the user's message; a variant with no keywords is
// the default for its emotion.
type ruleTemplate struct {
	keywords []string
	text     string
}

// genericReply backs any emotion (including the neutral degraded label) that
// has no matching variant.
const genericReply = "Thank you for telling me this. What you're feeling is valid, and you don't have to " +
	"carry it alone. Try to take things one small step at a time today, and be as kind to yourself " +
	"as you would be to a friend in the same situation. If you'd like, tell me a bit more about " +
	"what's weighing on you — sometimes putting it into words helps."

// safetyNetReply is the hardcoded last resort should template selection itself
// ever fail. It must never depend on any lookup.
const safetyNetReply = "I'm here with you. Whatever you're going through right now, your feelings matter, " +
	"and it's okay to take a moment to breathe before deciding what to do next."

var ruleTemplates = map[emotion.Label][]ruleTemplate{
	emotion.Happiness: {
		{text: "It's lovely to hear some brightness in what you shared. Hold on to this feeling — maybe " +
			"note down what made today good so you can come back to it on harder days. Moments like " +
			"this are worth savouring, not rushing past."},
	},
	emotion.Sadness: {
		{keywords: []string{"lost", "loss", "miss", "grief"}, text: "Losing something or someone that matters " +
			"to you leaves a real ache, and there's no timetable for how long that should take. Let " +
			"yourself feel it without judgement, lean on people you trust, and keep the basics going — " +
			"food, rest, a little fresh air. Grief softens with time, even when it doesn't feel that way."},
		{text: "I'm sorry you're feeling this low. Sadness is heavy, and it's okay to not be okay right " +
			"now. Something gentle can help a little — a walk outside, music you love, or a message to " +
			"someone who makes you feel understood. Be patient with yourself; feelings shift, even the " +
			"heavy ones."},
	},
	emotion.Anger: {
		{text: "It sounds like something real set this anger off, and that's a valid signal — it usually " +
			"means something important to you was stepped on. Before acting on it, give your body a way " +
			"to discharge some of it: a brisk walk, slow breathing in for four counts and out for eight, " +
			"or writing the unfiltered version down just for yourself. Once the heat drops, it's easier " +
			"to see what you actually want to do about the cause."},
	},
	emotion.Anxiety: {
		{keywords: []string{"sleep", "night"}, text: "Anxious nights are exhausting. Try parking your " +
			"worries on paper before bed — written down, they stop circling. A slow breathing pattern, " +
			"in for four and out for eight, tells your body the alarm can stand down. If sleep keeps " +
			"breaking for weeks, it's worth mentioning to a professional."},
		{text: "That churning, on-edge feeling is your body trying to protect you, even though it feels " +
			"awful. Try grounding yourself in the present: name five things you can see, four you can " +
			"touch, three you can hear. Then ask the worry one honest question — how likely is the thing " +
			"I'm dreading, really? Anxiety shrinks when it's examined in the light."},
	},
	emotion.Frustration: {
		{keywords: []string{"motivat", "want to", "don't feel like"}, text: "Wanting to do something and not " +
			"being able to start is one of the most common traps there is. Motivation usually follows " +
			"action, not the other way round — commit to just five minutes of the task and give yourself " +
			"permission to stop after that. Most of the time, starting was the whole battle."},
		{keywords: []string{"work", "homework", "study", "assignment", "deadline"}, text: "Workload pressure " +
			"grinds everyone down eventually. Break what's in front of you into the smallest pieces you " +
			"can, do the next piece only, and put a short break between pieces — twenty-five minutes on, " +
			"five off works for a lot of people. And if it's genuinely too much, asking for help or an " +
			"extension is a skill, not a failure."},
		{keywords: []string{"tired", "exhaust"}, text: "Running on empty makes everything feel stuck. Rest " +
			"isn't a reward you have to earn — take it now, even ten minutes of something that isn't the " +
			"problem. Check the basics too: water, food, a stretch. Stuck problems often loosen after " +
			"the person working on them has recovered a little."},
		{text: "Feeling stuck is maddening, especially when you've already been trying. Step back and " +
			"change the angle: what's the absolute smallest next step? Is there someone who's been " +
			"through the same wall? Sometimes twenty minutes away from the problem does more than " +
			"another hour pushing at it."},
	},
	emotion.Depression: {
		{text: "When everything feels flat and pointless, even small things take enormous effort — so " +
			"give yourself credit for reaching out at all. Keep contact with one person you trust, keep " +
			"one small routine going, and treat the dark thoughts as symptoms rather than truths. If " +
			"this heaviness has been with you for a while, please consider talking to a doctor or " +
			"counsellor; you deserve more support than a chat window can give."},
	},
}

// selectTemplate picks the reply for the rule tier: keyword variants first in
// their declared order, then the emotion's default, then the generic reply.
func selectTemplate(label emotion.Label, text string) string {
	lowered := strings.ToLower(text)

	variants := ruleTemplates[label]
	var fallback string
	for _, variant := range variants {
		if len(variant.keywords) == 0 {
			if fallback == "" {
				fallback = variant.text
			}
			continue
		}
		for _, keyword := range variant.keywords {
			if strings.Contains(lowered, keyword) {
				return variant.text
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	if len(variants) > 0 {
		return variants[0].text
	}
	return genericReply
}
