package emotion

// Label is one of the canonical emotions this system exposes downstream.
type Label string

const (
	Happiness   Label = "happiness"
	Sadness     Label = "sadness"
	Anger       Label = "anger"
	Anxiety     Label = "anxiety"
	Frustration Label = "frustration"
	Depression  Label = "depression"

	// Neutral is the designated degraded-mode label used when classification
	// is unavailable. It is not part of the canonical six.
	Neutral Label = "neutral"
)

// Canonical lists the canonical labels in their fixed priority order, used to
// break probability ties deterministically.
var Canonical = []Label{Happiness, Sadness, Anger, Anxiety, Frustration, Depression}

// NativeLabel is one of the labels emitted by the underlying classifier.
type NativeLabel string

const (
	NativeJoy      NativeLabel = "joy"
	NativeSadness  NativeLabel = "sadness"
	NativeAnger    NativeLabel = "anger"
	NativeFear     NativeLabel = "fear"
	NativeSurprise NativeLabel = "surprise"
	NativeDisgust  NativeLabel = "disgust"
)

// Native lists the classifier's label set in its emission order.
var Native = []NativeLabel{NativeJoy, NativeSadness, NativeAnger, NativeFear, NativeSurprise, NativeDisgust}

// nativeToCanonical is the fixed remapping table. Surprise carries no positive
// or negative valence on its own; in a support setting it is read as
// heightened arousal and folded into anxiety. Disgust folds into anger.
var nativeToCanonical = map[NativeLabel]Label{
	NativeJoy:      Happiness,
	NativeSadness:  Sadness,
	NativeAnger:    Anger,
	NativeFear:     Anxiety,
	NativeSurprise: Anxiety,
	NativeDisgust:  Anger,
}

// MapNative resolves a native label through the fixed table. The table is
// total over the native set; unknown labels report ok=false.
func MapNative(native NativeLabel) (Label, bool) {
	label, ok := nativeToCanonical[native]
	return label, ok
}

// Score pairs a canonical label with its probability.
type Score struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
}

// Result is the structured output of one classification. Created fresh per
// turn and never mutated.
type Result struct {
	Primary      Label             `json:"primary"`
	Confidence   float64           `json:"confidence"`
	Distribution map[Label]float64 `json:"distribution"`
	TopK         []Score           `json:"topK"`
}

// NeutralResult is the substitute returned when the classifier cannot run.
func NeutralResult() Result {
	dist := make(map[Label]float64, len(Canonical))
	for _, label := range Canonical {
		dist[label] = 0
	}
	return Result{
		Primary:      Neutral,
		Confidence:   0,
		Distribution: dist,
		TopK:         nil,
	}
}
