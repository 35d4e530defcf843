package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sheravatov/kino-bot/internal/admins"
	"github.com/sheravatov/kino-bot/internal/models/domain"
	"github.com/sheravatov/kino-bot/internal/utils/logger/sl"

	"github.com/go-telegram/bot/models"
)

// draftStep identifies which step of the upload dialogue the admin is in.
type draftStep string

const (
	stepAwaitNumber draftStep = "upload_number"
	stepAwaitTitle  draftStep = "upload_title"
	stepAwaitDesc   draftStep = "upload_description"
)

// draftTTL is the inactivity timeout for an unfinished upload.
const draftTTL = 5 * time.Minute

// draft accumulates one admin's upload before it is committed as a video.
// Nothing is persisted until the description step completes.
type draft struct {
	Step      draftStep
	FileID    string
	VideoID   int64
	Title     string
	ExpiresAt time.Time
}

// draftStore keeps active drafts keyed by user ID, so uploads by different
// admins never share state.
type draftStore struct {
	mu   sync.RWMutex
	data map[int64]*draft
}

func newDraftStore() *draftStore {
	return &draftStore{data: make(map[int64]*draft)}
}

func (s *draftStore) get(userID int64) (*draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.data[userID]
	if !ok || time.Now().After(d.ExpiresAt) {
		return nil, false
	}
	return d, true
}

func (s *draftStore) set(userID int64, d *draft) {
	d.ExpiresAt = time.Now().Add(draftTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = d
}

func (s *draftStore) clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
}

// dialogue drives the admin upload conversation:
// video → catalog number → title → description → saved.
type dialogue struct {
	repo   storage
	admins *admins.Resolver
	out    outbound
	drafts *draftStore
	log    *slog.Logger
}

func newDialogue(logger *slog.Logger, repo storage, resolver *admins.Resolver, out outbound) *dialogue {
	return &dialogue{
		repo:   repo,
		admins: resolver,
		out:    out,
		drafts: newDraftStore(),
		log:    logger,
	}
}

// active reports whether userID has an unfinished upload.
func (d *dialogue) active(userID int64) bool {
	_, ok := d.drafts.get(userID)
	return ok
}

// handleVideo starts an upload when an admin sends a video attachment.
// Non-admins are rejected without creating a draft.
func (d *dialogue) handleVideo(ctx context.Context, chatID int64, from *models.User, fileID string) error {
	isAdm, err := d.admins.IsAdmin(ctx, from.ID)
	if err != nil {
		d.log.Error("admin check failed", sl.Err(err))
		return d.out.sendText(ctx, chatID, msgTryLater)
	}
	if !isAdm {
		return d.out.sendText(ctx, chatID, "❌ Siz video yuklay olmaysiz.")
	}

	if _, busy := d.drafts.get(from.ID); busy {
		return d.out.sendText(ctx, chatID,
			"⚠️ Avvalgi yuklash tugallanmagan. Davom eting yoki /cancel yuboring.")
	}

	d.drafts.set(from.ID, &draft{Step: stepAwaitNumber, FileID: fileID})
	return d.out.sendText(ctx, chatID, "🎬 Kino raqamini kiriting (masalan: 1):")
}

// handleText advances the dialogue with the admin's next input. No-op when
// the user has no active draft.
func (d *dialogue) handleText(ctx context.Context, chatID, userID int64, text string) error {
	dr, ok := d.drafts.get(userID)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)

	switch dr.Step {
	case stepAwaitNumber:
		id, err := strconv.ParseInt(text, 10, 64)
		if !isDigits(text) || err != nil {
			return d.out.sendText(ctx, chatID, "❌ Iltimos, faqat raqam kiriting:")
		}
		dr.VideoID = id
		dr.Step = stepAwaitTitle
		d.drafts.set(userID, dr)
		return d.out.sendText(ctx, chatID, "📝 Kino nomini kiriting:")

	case stepAwaitTitle:
		if text == "" {
			return d.out.sendText(ctx, chatID, "❌ Nomi bo'sh bo'lmasligi kerak. Kino nomini kiriting:")
		}
		dr.Title = text
		dr.Step = stepAwaitDesc
		d.drafts.set(userID, dr)
		return d.out.sendText(ctx, chatID, "📄 Kino tavsifini kiriting:")

	case stepAwaitDesc:
		v := domain.Video{
			ID:          dr.VideoID,
			FileID:      dr.FileID,
			Title:       dr.Title,
			Description: text,
		}
		if err := d.repo.UpsertVideo(ctx, v); err != nil {
			// Keep the draft so the admin can resend the description.
			d.log.Error("video save failed", slog.Int64("video_id", v.ID), sl.Err(err))
			return d.out.sendText(ctx, chatID, msgTryLater)
		}
		d.drafts.clear(userID)
		d.log.Info("video saved",
			slog.Int64("video_id", v.ID),
			slog.Int64("uploaded_by", userID),
		)
		return d.out.sendText(ctx, chatID,
			fmt.Sprintf("✅ Kino #%d muvaffaqiyatli saqlandi!", v.ID))
	}
	return nil
}

// cancel discards the user's draft, if any.
func (d *dialogue) cancel(ctx context.Context, chatID, userID int64) error {
	if _, ok := d.drafts.get(userID); !ok {
		return d.out.sendText(ctx, chatID, "ℹ️ Bekor qilinadigan jarayon yo'q.")
	}
	d.drafts.clear(userID)
	return d.out.sendText(ctx, chatID, "❌ Jarayon bekor qilindi.")
}
