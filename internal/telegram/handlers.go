package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sheravatov/kino-bot/internal/admins"
	"github.com/sheravatov/kino-bot/internal/utils/logger/sl"

	"github.com/go-telegram/bot/models"
)

// ─── Command dispatcher ────────────────────────────────────────────────────

// commandHandler dispatches bot commands. Commands other than /cancel do
// not touch a pending upload draft.
func (kb *Bot) commandHandler(ctx context.Context, msg *models.Message) error {
	chatID := msg.Chat.ID

	switch commandText(msg) {
	case "start":
		return kb.handleStart(ctx, chatID, msg)
	case "stats":
		return kb.handleStats(ctx, chatID, msg)
	case "addadmin":
		return kb.handleAddAdmin(ctx, chatID, msg)
	case "removeadmin":
		return kb.handleRemoveAdmin(ctx, chatID, msg)
	case "admins":
		return kb.handleAdmins(ctx, chatID, msg)
	case "cancel":
		return kb.uploads.cancel(ctx, chatID, msg.From.ID)
	default:
		return kb.out.sendText(ctx, chatID,
			fmt.Sprintf("❓ Noma'lum buyruq: /%s\nImkoniyatlar uchun /start yuboring.",
				commandText(msg)))
	}
}

// requireAdmin replies with a permission error when the sender is not an
// admin. The second return is non-nil only when even the reply failed.
func (kb *Bot) requireAdmin(ctx context.Context, chatID int64, msg *models.Message) (bool, error) {
	isAdm, err := kb.admins.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		kb.log.Error("admin check failed", sl.Err(err))
		return false, kb.out.sendText(ctx, chatID, msgTryLater)
	}
	if !isAdm {
		return false, kb.out.sendText(ctx, chatID, "❌ Bu buyruq faqat adminlar uchun.")
	}
	return true, nil
}

// ─── /start ───────────────────────────────────────────────────────────────

func (kb *Bot) handleStart(ctx context.Context, chatID int64, msg *models.Message) error {
	isAdm, err := kb.admins.IsAdmin(ctx, msg.From.ID)
	if err != nil {
		kb.log.Error("admin check failed", sl.Err(err))
		return kb.out.sendText(ctx, chatID, msgTryLater)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👋 Salom, %s!\n\n", msg.From.FirstName)
	if isAdm {
		b.WriteString("🎬 Siz adminsiz. Quyidagi imkoniyatlar mavjud:\n\n")
		b.WriteString("📹 Video yuklash: Video yuboring\n")
		b.WriteString("📊 Statistika: /stats\n")
		b.WriteString("👥 Admin qo'shish: /addadmin [ID]\n")
		b.WriteString("🗑 Admin o'chirish: /removeadmin [ID]\n")
		b.WriteString("📋 Adminlar ro'yxati: /admins\n")
		b.WriteString("💬 Javob berish: reply [ID] [xabar]\n\n")
	}
	b.WriteString("🎥 Kino ko'rish uchun raqamini yuboring.\n")
	b.WriteString("✉️ Savollaringiz bo'lsa, xabar yozing!")

	return kb.out.sendText(ctx, chatID, b.String())
}

// ─── /stats ───────────────────────────────────────────────────────────────

func (kb *Bot) handleStats(ctx context.Context, chatID int64, msg *models.Message) error {
	if ok, err := kb.requireAdmin(ctx, chatID, msg); !ok {
		return err
	}

	s, err := kb.repo.Stats(ctx)
	if err != nil {
		kb.log.Error("stats query failed", sl.Err(err))
		return kb.out.sendText(ctx, chatID, msgTryLater)
	}

	text := fmt.Sprintf("📊 <b>Statistika</b>\n\n"+
		"👥 Umumiy foydalanuvchilar: %d\n"+
		"✅ Bugun faol: %d\n"+
		"📅 Oy davomida faol: %d\n"+
		"🎬 Bazadagi kinolar: %d\n"+
		"💬 Bugun yuborilgan xabarlar: %d",
		s.TotalUsers, s.ActiveToday, s.ActiveMonth, s.TotalVideos, s.MessagesToday)

	return kb.out.sendHTML(ctx, chatID, text)
}

// ─── /addadmin ────────────────────────────────────────────────────────────

func (kb *Bot) handleAddAdmin(ctx context.Context, chatID int64, msg *models.Message) error {
	if ok, err := kb.requireAdmin(ctx, chatID, msg); !ok {
		return err
	}

	id, ok := commandIDArgument(msg)
	if !ok {
		return kb.out.sendText(ctx, chatID, "❌ Noto'g'ri format. Ishlatish: /addadmin [ID]")
	}

	err := kb.admins.Add(ctx, msg.From.ID, id)
	switch {
	case errors.Is(err, admins.ErrAlreadyAdmin):
		return kb.out.sendText(ctx, chatID, "⚠️ Bu foydalanuvchi allaqachon admin.")
	case err != nil:
		kb.log.Error("add admin failed", sl.Err(err))
		return kb.out.sendText(ctx, chatID, msgTryLater)
	}
	return kb.out.sendText(ctx, chatID, fmt.Sprintf("✅ Admin qo'shildi: %d", id))
}

// ─── /removeadmin ─────────────────────────────────────────────────────────

func (kb *Bot) handleRemoveAdmin(ctx context.Context, chatID int64, msg *models.Message) error {
	if ok, err := kb.requireAdmin(ctx, chatID, msg); !ok {
		return err
	}

	id, ok := commandIDArgument(msg)
	if !ok {
		return kb.out.sendText(ctx, chatID, "❌ Noto'g'ri format. Ishlatish: /removeadmin [ID]")
	}

	err := kb.admins.Remove(ctx, id)
	switch {
	case errors.Is(err, admins.ErrNotAdmin):
		return kb.out.sendText(ctx, chatID, "⚠️ Bu foydalanuvchi admin emas.")
	case err != nil:
		kb.log.Error("remove admin failed", sl.Err(err))
		return kb.out.sendText(ctx, chatID, msgTryLater)
	}
	return kb.out.sendText(ctx, chatID, fmt.Sprintf("✅ Admin o'chirildi: %d", id))
}

// ─── /admins ──────────────────────────────────────────────────────────────

func (kb *Bot) handleAdmins(ctx context.Context, chatID int64, msg *models.Message) error {
	if ok, err := kb.requireAdmin(ctx, chatID, msg); !ok {
		return err
	}

	ids, err := kb.admins.List(ctx)
	if err != nil {
		kb.log.Error("admin list failed", sl.Err(err))
		return kb.out.sendText(ctx, chatID, msgTryLater)
	}
	if len(ids) == 0 {
		return kb.out.sendText(ctx, chatID, "📋 Adminlar ro'yxati bo'sh.")
	}

	var b strings.Builder
	b.WriteString("👥 <b>Adminlar ro'yxati:</b>\n\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "🔹 ID: <code>%d</code>\n", id)
	}
	return kb.out.sendHTML(ctx, chatID, b.String())
}

// commandIDArgument parses the first command argument as a non-negative
// integer id.
func commandIDArgument(msg *models.Message) (int64, bool) {
	args := strings.Fields(commandArguments(msg))
	if len(args) == 0 || !isDigits(args[0]) {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
