package port

import (
	"context"

	"lens-rules/internal/domain/entity"
)

// UserRepository интерфейс хранилища сессий пользователей
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового с правилами по умолчанию если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// UpdateRules заменяет текст правил пользователя, не трогая состояние диалога
	UpdateRules(ctx context.Context, userID int64, name, text string) error
}
