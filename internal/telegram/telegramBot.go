package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/sheravatov/kino-bot/internal/admins"
	"github.com/sheravatov/kino-bot/internal/config"
	"github.com/sheravatov/kino-bot/internal/models/domain"
	"github.com/sheravatov/kino-bot/internal/repositories"
	"github.com/sheravatov/kino-bot/internal/utils/logger/sl"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// storage is the slice of the repository the bot needs. The admins table
// is accessed through the admins resolver, not here.
type storage interface {
	UpsertUser(ctx context.Context, userID int64, username, firstName string) error
	UpsertVideo(ctx context.Context, v domain.Video) error
	GetVideo(ctx context.Context, id int64) (*domain.Video, error)
	SaveMessage(ctx context.Context, userID int64, text string) error
	Stats(ctx context.Context) (*domain.Stats, error)
}

// outbound is the messaging transport. Implemented by tgSender over
// go-telegram/bot; faked in tests.
type outbound interface {
	sendText(ctx context.Context, chatID int64, text string) error
	sendHTML(ctx context.Context, chatID int64, text string) error
	sendVideo(ctx context.Context, chatID int64, fileID, caption string) error
}

const msgTryLater = "⚠️ Vaqtinchalik xatolik yuz berdi. Keyinroq urinib ko'ring."

// Bot is the Telegram bot for the kino catalog.
type Bot struct {
	b       *bot.Bot
	cfg     *config.Config
	repo    storage
	admins  *admins.Resolver
	uploads *dialogue
	router  *router
	out     outbound
	srv     *http.Server
	ctx     context.Context
	cancel  context.CancelFunc
	log     *slog.Logger
}

// New creates a new Bot instance.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	repo *repositories.Repository,
	resolver *admins.Resolver,
) *Bot {
	op := "telegram.New()"
	log := logger.With(slog.String("op", op))

	ctx, cancel := context.WithCancel(context.Background())

	kinoBot := &Bot{
		cfg:    cfg,
		repo:   repo,
		admins: resolver,
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}

	b, err := bot.New(cfg.BotConfig.TgbotApiToken,
		bot.WithDefaultHandler(kinoBot.defaultHandler),
	)
	if err != nil {
		log.Error("error auth telegram bot", sl.Err(err))
		cancel()
		return nil
	}

	kinoBot.b = b
	kinoBot.out = &tgSender{b: b}
	kinoBot.uploads = newDialogue(log, kinoBot.repo, resolver, kinoBot.out)
	kinoBot.router = newRouter(log, kinoBot.repo, resolver, kinoBot.out)

	log.Info("telegram bot created")
	return kinoBot
}

// defaultHandler is the single entry point for all updates from go-telegram/bot.
func (kb *Bot) defaultHandler(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message

	log := kb.log.With(
		slog.String("update_id", uuid.NewString()),
		slog.Int64("user_id", msg.From.ID),
	)
	log.Info("input message",
		slog.String("user_name", msg.From.Username),
		slog.String("text", msg.Text),
	)

	// Receiving any message marks the user active.
	if err := kb.repo.UpsertUser(ctx, msg.From.ID, msg.From.Username, msg.From.FirstName); err != nil {
		log.Error("user upsert failed", sl.Err(err))
	}

	switch {
	case msg.Video != nil:
		if err := kb.uploads.handleVideo(ctx, msg.Chat.ID, msg.From, msg.Video.FileID); err != nil {
			log.Error("upload dialogue error", sl.Err(err))
		}
	case isCommand(msg):
		if err := kb.commandHandler(ctx, msg); err != nil {
			log.Error("command handler error", sl.Err(err))
		}
	case kb.uploads.active(msg.From.ID):
		if err := kb.uploads.handleText(ctx, msg.Chat.ID, msg.From.ID, msg.Text); err != nil {
			log.Error("upload dialogue error", sl.Err(err))
		}
	default:
		if err := kb.router.route(ctx, msg.Chat.ID, msg.From, msg.Text); err != nil {
			log.Error("router error", sl.Err(err))
		}
	}
}

// Start begins receiving Telegram updates: webhook when a webhook URL is
// configured, long polling otherwise. Blocks until shutdown.
func (kb *Bot) Start() {
	if kb.cfg.BotConfig.WebhookURL != "" {
		kb.startWebhook()
		return
	}
	kb.log.Info("starting telegram bot polling")
	kb.b.Start(kb.ctx)
	kb.log.Info("telegram bot polling stopped")
}

// startWebhook registers <webhook_url>/<token> and serves updates over the
// configured HTTP server, with a health line on GET /.
func (kb *Bot) startWebhook() {
	token := kb.cfg.BotConfig.TgbotApiToken
	url := strings.TrimRight(kb.cfg.BotConfig.WebhookURL, "/") + "/" + token

	if _, err := kb.b.SetWebhook(kb.ctx, &bot.SetWebhookParams{URL: url}); err != nil {
		kb.log.Error("error setting webhook", sl.Err(err))
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "Kinobot ishlayapti! ✅")
	})
	mux.Handle("POST /"+token, kb.b.WebhookHandler())

	addr := net.JoinHostPort(kb.cfg.HttpServer.Address, kb.cfg.HttpServer.Port)
	kb.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: kb.cfg.HttpServer.Timeout,
	}

	go kb.b.StartWebhook(kb.ctx)

	kb.log.Info("starting webhook server", slog.String("addr", addr))
	if err := kb.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		kb.log.Error("webhook server stopped", sl.Err(err))
	}
}

// Shutdown gracefully stops the bot and the webhook server, if any.
func (kb *Bot) Shutdown(ctx context.Context) error {
	kb.cancel()
	if kb.srv != nil {
		if err := kb.srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("telegram.Shutdown: %w", err)
		}
	}
	return nil
}

// ─── Outbound transport ────────────────────────────────────────────────────

type tgSender struct {
	b *bot.Bot
}

func (s *tgSender) sendText(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range splitTextIntoChunks(text, 4096) {
		_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		})
		if err != nil {
			return fmt.Errorf("sendText: %w", err)
		}
	}
	return nil
}

func (s *tgSender) sendHTML(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("sendHTML: %w", err)
	}
	return nil
}

func (s *tgSender) sendVideo(ctx context.Context, chatID int64, fileID, caption string) error {
	_, err := s.b.SendVideo(ctx, &bot.SendVideoParams{
		ChatID:    chatID,
		Video:     &models.InputFileString{Data: fileID},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("sendVideo: %w", err)
	}
	return nil
}

// ─── Message helpers ───────────────────────────────────────────────────────

// isCommand reports whether msg is a bot command.
func isCommand(msg *models.Message) bool {
	if msg == nil || len(msg.Entities) == 0 {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			return true
		}
	}
	return false
}

// commandText extracts /command from a message (without @botname suffix).
func commandText(msg *models.Message) string {
	if msg == nil || len(msg.Entities) == 0 {
		return ""
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			raw := []rune(msg.Text)[e.Offset : e.Offset+e.Length]
			cmd := string(raw)
			// strip leading slash
			if len(cmd) > 0 && cmd[0] == '/' {
				cmd = cmd[1:]
			}
			// strip @botname if present
			for i, c := range cmd {
				if c == '@' {
					cmd = cmd[:i]
					break
				}
			}
			return cmd
		}
	}
	return ""
}

// commandArguments returns the text that follows the first /command entity.
func commandArguments(msg *models.Message) string {
	if msg == nil || len(msg.Entities) == 0 {
		return ""
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			end := e.Offset + e.Length
			runes := []rune(msg.Text)
			if end >= len(runes) {
				return ""
			}
			// skip one space after command
			rest := string(runes[end:])
			if len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			return rest
		}
	}
	return ""
}

// splitTextIntoChunks splits text into chunks of the specified size.
func splitTextIntoChunks(text string, chunkSize int) []string {
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += chunkSize {
		end := min(i+chunkSize, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
