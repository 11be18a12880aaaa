package services

import "sync"

// SessionStore — хранилище активных сессий: токен → id пользователя.
// Внедряется явно, чтобы тесты могли подставить детерминированную
// реализацию, а продакшен — добавить TTL/вытеснение, не трогая сервисы.
type SessionStore interface {
	Put(token string, userID int)
	Get(token string) (int, bool)
	Evict(token string)
}

// InMemorySessionStore хранит сессии в памяти процесса. Безопасен для
// конкурентных Login (запись) и Resolve (чтение) без внешних блокировок.
// Сессии живут до рестарта процесса или явного Logout.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]int
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]int),
	}
}

func (s *InMemorySessionStore) Put(token string, userID int) {
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()
}

func (s *InMemorySessionStore) Get(token string) (int, bool) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()
	return userID, ok
}

func (s *InMemorySessionStore) Evict(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
