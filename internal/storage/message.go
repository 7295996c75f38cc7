package storage

import (
	"sync"
	"time"
)

// QuestionMessage identifies the bot message that shows the current question.
type QuestionMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers the last question message per chat so it can be
// edited in place or removed when a new game starts.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]QuestionMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]QuestionMessage),
	}
}

func (s *MessageStorage) Store(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[chatID] = QuestionMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}
}

func (s *MessageStorage) Get(chatID int64) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, chatID)
}
