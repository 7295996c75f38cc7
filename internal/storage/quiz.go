package storage

import (
	"errors"
	"sync"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrStaleGeneration = errors.New("quiz session belongs to a superseded generation")
)

// QuizStorage keeps the active quiz session of every chat in memory.
// Each chat has a generation counter; a session is only accepted or
// modified while its generation is the chat's latest.
type QuizStorage struct {
	mu          sync.RWMutex
	sessions    map[int64]*entities.QuizSession
	generations map[int64]uint64
	lastOptions map[int64]entities.PlayOptions // options of the latest stored session, kept after it ends
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions:    make(map[int64]*entities.QuizSession),
		generations: make(map[int64]uint64),
		lastOptions: make(map[int64]entities.PlayOptions),
	}
}

// NextGeneration starts a new generation for chatID and returns it.
// Sessions of earlier generations become stale.
func (s *QuizStorage) NextGeneration(chatID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[chatID]++
	return s.generations[chatID]
}

// Store saves session unless a newer generation was started for its chat.
func (s *QuizStorage) Store(session *entities.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[session.ChatID] != session.Generation {
		return ErrStaleGeneration
	}
	s.sessions[session.ChatID] = session
	s.lastOptions[session.ChatID] = session.Options
	return nil
}

// LastOptions returns the options of the most recently stored session of
// chatID, even when that session has finished or was abandoned.
func (s *QuizStorage) LastOptions(chatID int64) (entities.PlayOptions, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opts, ok := s.lastOptions[chatID]
	return opts, ok
}

// Get retrieves a copy of the active session for chatID.
func (s *QuizStorage) Get(chatID int64) (entities.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return entities.QuizSession{}, ErrSessionNotFound
	}
	return *session, nil
}

// Update runs fn on the session of chatID while holding the lock.
// It fails with ErrStaleGeneration when generation is not the current one.
func (s *QuizStorage) Update(chatID int64, generation uint64, fn func(*entities.QuizSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Generation != generation || s.generations[chatID] != generation {
		return ErrStaleGeneration
	}
	return fn(session)
}

// Delete removes the session for chatID if it still belongs to generation.
func (s *QuizStorage) Delete(chatID int64, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[chatID]; ok && session.Generation == generation {
		delete(s.sessions, chatID)
	}
}

// Abandon drops the chat's session and invalidates its generation.
func (s *QuizStorage) Abandon(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	s.generations[chatID]++
}
