package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu           UserState = "main_menu"           // В главном меню
	StateAwaitingRules      UserState = "awaiting_rules"      // Ожидание текста правил
	StateAwaitingAnnotation UserState = "awaiting_annotation" // Ожидание файлов разметки
)

// User представляет пользователя бота
type User struct {
	ID        int64     // Telegram User ID
	ChatID    int64     // Telegram Chat ID
	State     UserState // Текущее состояние пользователя
	RulesText string    // Текст правил текущей сессии
	RulesName string    // Имя пресета или "custom"
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetRules запоминает текст правил сессии
func (u *User) SetRules(name, text string) {
	u.RulesName = name
	u.RulesText = text
}

// HasRules сообщает, заданы ли правила
func (u *User) HasRules() bool {
	return u.RulesText != ""
}
