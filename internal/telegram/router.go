package telegram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/sheravatov/kino-bot/internal/admins"
	"github.com/sheravatov/kino-bot/internal/utils/logger/sl"

	"github.com/go-telegram/bot/models"
)

// router decides what to do with a free-text message from a user who is not
// mid-upload, in strict priority order:
//  1. admin "reply <id> <body>" broadcast
//  2. pure-integer catalog lookup
//  3. persist and forward to all admins
type router struct {
	repo   storage
	admins *admins.Resolver
	out    outbound
	log    *slog.Logger
}

func newRouter(logger *slog.Logger, repo storage, resolver *admins.Resolver, out outbound) *router {
	return &router{
		repo:   repo,
		admins: resolver,
		out:    out,
		log:    logger,
	}
}

func (rt *router) route(ctx context.Context, chatID int64, from *models.User, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	isAdm, err := rt.admins.IsAdmin(ctx, from.ID)
	if err != nil {
		rt.log.Error("admin check failed", sl.Err(err))
		return rt.out.sendText(ctx, chatID, msgTryLater)
	}

	if isAdm && strings.HasPrefix(text, "reply ") {
		return rt.handleReply(ctx, chatID, text)
	}
	if isDigits(text) {
		return rt.handleLookup(ctx, chatID, text)
	}
	return rt.forwardToAdmins(ctx, chatID, from, text)
}

// handleReply delivers the body of "reply <id> <body>" to user <id> and
// reports the outcome to the admin.
func (rt *router) handleReply(ctx context.Context, chatID int64, text string) error {
	target, body, ok := parseReply(text)
	if !ok {
		return rt.out.sendText(ctx, chatID, "❌ Noto'g'ri format. Ishlatish: reply [ID] [xabar]")
	}

	msg := fmt.Sprintf("💬 <b>Admin javob berdi:</b>\n\n%s", body)
	if err := rt.out.sendHTML(ctx, target, msg); err != nil {
		rt.log.Warn("reply delivery failed", slog.Int64("target_id", target), sl.Err(err))
		return rt.out.sendText(ctx, chatID, fmt.Sprintf("❌ Xato: %v", err))
	}
	return rt.out.sendText(ctx, chatID, fmt.Sprintf("✅ Javob yuborildi: %d", target))
}

// handleLookup sends the catalog video for the requested number, or a
// not-found message naming it.
func (rt *router) handleLookup(ctx context.Context, chatID int64, text string) error {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// all digits but does not fit int64: no such catalog number
		return rt.out.sendText(ctx, chatID, fmt.Sprintf("❌ %s-raqamli kino topilmadi.", text))
	}

	v, err := rt.repo.GetVideo(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return rt.out.sendText(ctx, chatID, fmt.Sprintf("❌ %d-raqamli kino topilmadi.", id))
	case err != nil:
		rt.log.Error("video lookup failed", slog.Int64("video_id", id), sl.Err(err))
		return rt.out.sendText(ctx, chatID, msgTryLater)
	}

	caption := fmt.Sprintf("🎬 <b>%s</b>\n\n%s", v.Title, v.Description)
	if err := rt.out.sendVideo(ctx, chatID, v.FileID, caption); err != nil {
		rt.log.Error("video delivery failed", slog.Int64("video_id", id), sl.Err(err))
		return rt.out.sendText(ctx, chatID, fmt.Sprintf("❌ Xato: %v", err))
	}
	return nil
}

// forwardToAdmins logs the message and notifies every effective admin.
// Per-admin delivery failures do not stop the fan-out, and the sender is
// acknowledged regardless.
func (rt *router) forwardToAdmins(ctx context.Context, chatID int64, from *models.User, text string) error {
	if err := rt.repo.SaveMessage(ctx, from.ID, text); err != nil {
		rt.log.Error("message save failed", sl.Err(err))
		return rt.out.sendText(ctx, chatID, msgTryLater)
	}

	adminIDs, err := rt.admins.List(ctx)
	if err != nil {
		rt.log.Error("admin list failed", sl.Err(err))
		return rt.out.sendText(ctx, chatID, msgTryLater)
	}

	note := formatAdminNote(from, text)
	for _, adminID := range adminIDs {
		if err := rt.out.sendHTML(ctx, adminID, note); err != nil {
			rt.log.Error("admin notify failed", slog.Int64("admin_id", adminID), sl.Err(err))
		}
	}

	return rt.out.sendText(ctx, chatID, "📨 Xabaringiz adminga yuborildi!")
}

func formatAdminNote(from *models.User, text string) string {
	username := "mavjud emas"
	if from.Username != "" {
		username = "@" + from.Username
	}
	return fmt.Sprintf("✉️ <b>Yangi xabar</b>\n\n"+
		"👤 Ism: %s\n"+
		"🆔 ID: <code>%d</code>\n"+
		"🧷 Username: %s\n"+
		"💬 Xabar: %s",
		from.FirstName, from.ID, username, text)
}

// parseReply splits "reply <id> <body>". ok is false when the id is not a
// non-negative integer literal or the body is empty.
func parseReply(text string) (int64, string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "reply"))
	idEnd := strings.IndexFunc(rest, unicode.IsSpace)
	if idEnd < 0 {
		return 0, "", false
	}
	idStr := rest[:idEnd]
	body := strings.TrimSpace(rest[idEnd:])
	if !isDigits(idStr) || body == "" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, body, true
}

// isDigits reports whether s is one or more ASCII digits. Matches how the
// bot validates catalog numbers and ids everywhere: no sign, no spaces.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
