package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "lens-rules/internal/application"
	"lens-rules/internal/domain/entity"
	"lens-rules/internal/domain/rule"
)

const (
	msgStart = `👋 Привет! Я проверяю разметку дефектов линз по набору правил.

📋 Команды:
/rules — задать свои правила
/preset — выбрать готовый набор правил
/show — показать текущие правила
/check — проверить файлы разметки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Задайте правила через /rules или /preset <имя>
2️⃣ Отправьте /check и пришлите XML-файлы разметки (Pascal VOC)
3️⃣ Бот ответит списком дефектов, которые требуют внимания

📐 Одна строка — одно правило:
0101 x>1329 x<=1710 w>7*2.5 -2 -3
код, условия по x, y, w, h (>, >=, <, <=, ==) и варианты: +N только они, -N кроме них.`

	msgAwaitingRules    = "✏️ Пришлите текст правил одним сообщением."
	msgAwaitingFiles    = "📎 Пришлите XML-файлы разметки. /cancel — закончить."
	msgCancelled        = "❌ Операция отменена."
	msgSendRules        = "💡 Отправьте /rules, чтобы задать правила, или /check, чтобы проверить разметку."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgNeedCheck        = "📎 Сначала отправьте /check."
	msgNotXML           = "⚠️ Нужен XML-файл разметки."
	msgNoRules          = "⚠️ Правила не заданы. Используйте /rules или /preset."
	msgProcessingError  = "⚠️ Не удалось обработать файл."
	msgNoPresets        = "⚠️ Готовые наборы правил не настроены."
	msgEmptyRules       = "⚠️ Правила пусты."
	maxFindingsInReply  = 40
	maxRulesPreviewRune = 3500
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	inspection *app.InspectionService
	log        zerolog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, inspection *app.InspectionService, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	return &Bot{
		api:        api,
		users:      users,
		inspection: inspection,
		log:        log.With().Str("component", "telegram").Logger(),
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка файлов разметки
	if msg.Document != nil {
		b.handleDocument(ctx, msg, user)
		return
	}

	if user.State == entity.StateAwaitingRules {
		b.handleRulesText(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendRules)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "rules":
		_, err = b.users.BeginRules(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingRules)

	case "preset":
		b.handlePreset(ctx, msg, user, strings.TrimSpace(msg.CommandArguments()))

	case "show":
		b.sendMessage(msg.Chat.ID, formatRules(user))

	case "check":
		if !user.HasRules() {
			b.sendMessage(msg.Chat.ID, msgNoRules)
			return
		}
		_, err = b.users.BeginCheck(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingFiles)

	case "cancel":
		_, err = b.users.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		b.log.Error().Err(err).Str("command", msg.Command()).Msg("update user state")
	}
}

// handlePreset показывает список пресетов или переключает на выбранный
func (b *Bot) handlePreset(ctx context.Context, msg *tgbotapi.Message, user *entity.User, name string) {
	names := b.inspection.Presets()
	if len(names) == 0 {
		b.sendMessage(msg.Chat.ID, msgNoPresets)
		return
	}
	if name == "" {
		b.sendMessage(msg.Chat.ID, formatPresetList(names, user.RulesName))
		return
	}

	rs, err := b.inspection.UsePreset(ctx, user.ID, msg.Chat.ID, name)
	if err != nil {
		b.sendMessage(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}
	b.sendMessage(msg.Chat.ID, formatRulesAccepted(name, rs))
}

// handleRulesText компилирует присланные правила и сохраняет их
func (b *Bot) handleRulesText(ctx context.Context, msg *tgbotapi.Message) {
	if strings.TrimSpace(msg.Text) == "" {
		b.sendMessage(msg.Chat.ID, msgEmptyRules)
		return
	}

	rs, err := b.inspection.SetRules(ctx, msg.From.ID, msg.Chat.ID, msg.Text)
	if err != nil {
		b.sendMessage(msg.Chat.ID, formatCompileError(err))
		return
	}
	b.sendMessage(msg.Chat.ID, formatRulesAccepted("custom", rs))
}

// handleDocument проверяет присланный файл разметки
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.State != entity.StateAwaitingAnnotation {
		b.sendMessage(msg.Chat.ID, msgNeedCheck)
		return
	}
	if !strings.EqualFold(filepath.Ext(msg.Document.FileName), ".xml") {
		b.sendMessage(msg.Chat.ID, msgNotXML)
		return
	}

	data, err := b.downloadFile(ctx, msg.Document.FileID)
	if err != nil {
		b.log.Error().Err(err).Str("file", msg.Document.FileName).Msg("download annotation")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	report, err := b.inspection.InspectFile(ctx, user.ID, msg.Chat.ID, msg.Document.FileName, data)
	switch {
	case errors.Is(err, app.ErrNoRules):
		b.sendMessage(msg.Chat.ID, msgNoRules)
		return
	case err != nil:
		b.log.Warn().Err(err).Str("file", msg.Document.FileName).Msg("inspect annotation")
		b.sendMessage(msg.Chat.ID, msgProcessingError+"\n"+err.Error())
		return
	}

	b.sendMessage(msg.Chat.ID, formatReport(report))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func formatReport(r *entity.FileReport) string {
	if !r.Failed() {
		return fmt.Sprintf("✅ %s: дефектов %d, все в допуске.", r.File, r.Defects)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔴 %s: требуют внимания %d из %d\n", r.File, len(r.Findings), r.Defects)
	for i, f := range r.Findings {
		if i == maxFindingsInReply {
			fmt.Fprintf(&sb, "… и ещё %d\n", len(r.Findings)-maxFindingsInReply)
			break
		}
		cx, cy := f.Defect.Center()
		fmt.Fprintf(&sb, "• %s (%d,%d %dx%d, центр %d,%d) — %s\n", f.Defect.Label, f.Defect.X, f.Defect.Y, f.Defect.Width, f.Defect.Height, cx, cy, f.Reason)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCompileError(err error) string {
	var lineErr *rule.LineError
	if errors.As(err, &lineErr) {
		return fmt.Sprintf("⚠️ Ошибка в строке %d, токен %q: %v\nПравила не изменены.", lineErr.Line, lineErr.Token, lineErr.Err)
	}
	return "⚠️ " + err.Error()
}

func formatRulesAccepted(name string, rs *rule.Ruleset) string {
	return fmt.Sprintf("✅ Правила %q приняты: %d правил для %d кодов (%s).", name, rs.Len(), len(rs.Codes()), rs.Fingerprint())
}

func formatPresetList(names []string, current string) string {
	var sb strings.Builder
	sb.WriteString("📚 Готовые наборы правил:\n")
	for _, n := range names {
		mark := "•"
		if n == current {
			mark = "▶"
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, n)
	}
	sb.WriteString("Выбор: /preset <имя>")
	return sb.String()
}

func formatRules(u *entity.User) string {
	if !u.HasRules() {
		return msgNoRules
	}
	text := u.RulesText
	if r := []rune(text); len(r) > maxRulesPreviewRune {
		text = string(r[:maxRulesPreviewRune]) + "\n…"
	}
	return fmt.Sprintf("📋 Правила %q:\n%s", u.RulesName, strings.TrimRight(text, "\n"))
}
