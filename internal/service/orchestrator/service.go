package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/solacelabs/solace/backend/internal/model/chat"
	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionGreeting opens every conversation client-side. It is not part of the
// turn log, which must start with a user turn.
const SessionGreeting = "Hello! I'm here to listen and provide support. Feel free to share what's on your mind."

// Classifier produces an emotion result for one message.
type Classifier interface {
	Classify(ctx context.Context, text string) (emotion.Result, error)
}

// Embedder produces a diagnostic embedding vector for one message.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Suggester produces the reply for one turn. It must not fail.
type Suggester interface {
	Generate(ctx context.Context, text string, emotionResult emotion.Result, history []chat.Turn) chat.Suggestion
}

// session pairs one conversation state with its per-turn emotion log. The
// mutex serializes turns: a second submit queues behind the first so append
// order and alternation are preserved.
type session struct {
	mu       sync.Mutex
	info     chat.Session
	state    *conversationState
	emotions []emotion.Label
}

// Service drives the per-turn pipeline for every live session.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	classifier Classifier
	embedder   Embedder
	suggester  Suggester
	log        *logrus.Entry
}

// NewService wires the pipeline stages together. The embedder may be nil.
func NewService(classifier Classifier, embedder Embedder, suggester Suggester) *Service {
	return &Service{
		sessions:   make(map[string]*session),
		classifier: classifier,
		embedder:   embedder,
		suggester:  suggester,
		log:        logrus.WithField("component", "orchestrator"),
	}
}

// CreateSession provisions an empty conversation.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	info := chat.Session{
		ID:        uuid.NewString(),
		Greeting:  SessionGreeting,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[info.ID] = &session{
		info:  info,
		state: newConversationState(),
	}
	s.mu.Unlock()

	return info, nil
}

// ProcessTurn runs one full exchange: eager user append, best-effort
// embedding, classification with a neutral default, suggestion generation
// over the pre-append context, assistant append, derived stats. It never
// fails once the session and text are accepted; every degradation is visible
// only through the result itself.
func (s *Service) ProcessTurn(ctx context.Context, sessionID, text string) (chat.TurnResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return chat.TurnResult{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	userTurn := sess.state.append(sessionID, chat.RoleUser, text)
	contextWindow := sess.state.window(userTurn.Seq)

	s.embedBestEffort(ctx, sessionID, text)

	emotionResult, err := s.classify(ctx, text)
	if err != nil {
		s.log.WithFields(logrus.Fields{"session": sessionID, "error": err}).
			Warn("classification degraded to neutral default")
		emotionResult = emotion.NeutralResult()
	}

	suggestionResult := s.suggester.Generate(ctx, text, emotionResult, contextWindow)
	sess.state.append(sessionID, chat.RoleAssistant, suggestionResult.Text)
	sess.emotions = append(sess.emotions, emotionResult.Primary)

	s.log.WithFields(logrus.Fields{
		"session": sessionID,
		"emotion": emotionResult.Primary,
		"tier":    suggestionResult.Source,
	}).Info("turn processed")

	return chat.TurnResult{
		SessionID:  sessionID,
		Emotion:    emotionResult,
		Suggestion: suggestionResult,
		Stats:      deriveStats(sess),
	}, nil
}

// ResetSession clears the conversation and statistics; the session behaves as
// freshly created afterwards.
func (s *Service) ResetSession(_ context.Context, sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state.reset()
	sess.emotions = sess.emotions[:0]
	return nil
}

// Transcript returns a copy of the stored turns.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state.snapshot(), nil
}

// Stats recomputes the derived session view.
func (s *Service) Stats(_ context.Context, sessionID string) (chat.SessionStats, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return chat.SessionStats{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return deriveStats(sess), nil
}

func (s *Service) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// embedBestEffort runs the diagnostic embedding step. Any failure is logged
// and the turn proceeds; embeddings feed nothing downstream.
func (s *Service) embedBestEffort(ctx context.Context, sessionID, text string) {
	if s.embedder == nil {
		return
	}
	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.log.WithFields(logrus.Fields{"session": sessionID, "error": err}).
			Debug("embedding skipped")
		return
	}
	s.log.WithFields(logrus.Fields{"session": sessionID, "dims": len(vector)}).
		Debug("embedding generated")
}

func (s *Service) classify(ctx context.Context, text string) (emotion.Result, error) {
	if s.classifier == nil {
		return emotion.Result{}, errors.New("no classifier configured")
	}
	return s.classifier.Classify(ctx, text)
}

// deriveStats scans the turn log and per-turn emotion log; there is no second
// source of truth to fall out of sync.
func deriveStats(sess *session) chat.SessionStats {
	byEmotion := make(map[string]int, len(emotion.Canonical))
	for _, label := range sess.emotions {
		byEmotion[string(label)]++
	}
	return chat.SessionStats{
		TotalTurns: sess.state.userTurns(),
		ByEmotion:  byEmotion,
	}
}
