package storage

import (
	"context"
	"fmt"
	"sync"

	"lens-rules/internal/domain/entity"
	"lens-rules/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище сессий
type MemoryUserRepository struct {
	mu           sync.RWMutex
	users        map[int64]*entity.User
	defaultName  string
	defaultRules string
}

// NewMemoryUserRepository создаёт новое in-memory хранилище.
// Новые пользователи получают правила defaultName/defaultRules.
func NewMemoryUserRepository(defaultName, defaultRules string) *MemoryUserRepository {
	return &MemoryUserRepository{
		users:        make(map[int64]*entity.User),
		defaultName:  defaultName,
		defaultRules: defaultRules,
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		u := *user
		return &u, nil
	}

	newUser := entity.NewUser(userID, chatID)
	newUser.SetRules(r.defaultName, r.defaultRules)

	r.mu.Lock()
	// другой запрос мог успеть создать пользователя
	if user, exists := r.users[userID]; exists {
		r.mu.Unlock()
		u := *user
		return &u, nil
	}
	r.users[userID] = newUser
	r.mu.Unlock()

	u := *newUser
	return &u, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	u := *user
	r.mu.Lock()
	r.users[user.ID] = &u
	r.mu.Unlock()

	return nil
}

// UpdateRules обновляет текст правил пользователя
func (r *MemoryUserRepository) UpdateRules(ctx context.Context, userID int64, name, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		return fmt.Errorf("user %d not found", userID)
	}
	user.SetRules(name, text)

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
