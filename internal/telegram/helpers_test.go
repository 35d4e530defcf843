package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sheravatov/kino-bot/internal/admins"
	"github.com/sheravatov/kino-bot/internal/models/domain"

	"github.com/go-telegram/bot/models"
)

// fakeStore implements storage and admins.Store in memory.
type fakeStore struct {
	videos    map[int64]domain.Video
	messages  []domain.Message
	userIDs   []int64
	adminIDs  []int64
	stats     domain.Stats
	failSave  error
	failQuery error
}

func newFakeStore() *fakeStore {
	return &fakeStore{videos: make(map[int64]domain.Video)}
}

func (s *fakeStore) UpsertUser(_ context.Context, userID int64, _, _ string) error {
	s.userIDs = append(s.userIDs, userID)
	return nil
}

func (s *fakeStore) UpsertVideo(_ context.Context, v domain.Video) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.videos[v.ID] = v
	return nil
}

func (s *fakeStore) GetVideo(_ context.Context, id int64) (*domain.Video, error) {
	if s.failQuery != nil {
		return nil, s.failQuery
	}
	v, ok := s.videos[id]
	if !ok {
		return nil, fmt.Errorf("fakeStore.GetVideo: %w", sql.ErrNoRows)
	}
	return &v, nil
}

func (s *fakeStore) SaveMessage(_ context.Context, userID int64, text string) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.messages = append(s.messages, domain.Message{UserID: userID, Text: text})
	return nil
}

func (s *fakeStore) Stats(_ context.Context) (*domain.Stats, error) {
	if s.failQuery != nil {
		return nil, s.failQuery
	}
	st := s.stats
	return &st, nil
}

func (s *fakeStore) ListAdminIDs(_ context.Context) ([]int64, error) {
	if s.failQuery != nil {
		return nil, s.failQuery
	}
	return append([]int64(nil), s.adminIDs...), nil
}

func (s *fakeStore) AddAdmin(_ context.Context, adminID, _ int64) (bool, error) {
	for _, id := range s.adminIDs {
		if id == adminID {
			return false, nil
		}
	}
	s.adminIDs = append(s.adminIDs, adminID)
	return true, nil
}

func (s *fakeStore) RemoveAdmin(_ context.Context, adminID int64) (bool, error) {
	for i, id := range s.adminIDs {
		if id == adminID {
			s.adminIDs = append(s.adminIDs[:i], s.adminIDs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeSender records outbound sends and can fail per chat.
type sentText struct {
	chatID int64
	text   string
	html   bool
}

type sentVideo struct {
	chatID  int64
	fileID  string
	caption string
}

type fakeSender struct {
	texts   []sentText
	videos  []sentVideo
	failFor map[int64]error
}

func (s *fakeSender) sendText(_ context.Context, chatID int64, text string) error {
	if err := s.failFor[chatID]; err != nil {
		return err
	}
	s.texts = append(s.texts, sentText{chatID: chatID, text: text})
	return nil
}

func (s *fakeSender) sendHTML(_ context.Context, chatID int64, text string) error {
	if err := s.failFor[chatID]; err != nil {
		return err
	}
	s.texts = append(s.texts, sentText{chatID: chatID, text: text, html: true})
	return nil
}

func (s *fakeSender) sendVideo(_ context.Context, chatID int64, fileID, caption string) error {
	if err := s.failFor[chatID]; err != nil {
		return err
	}
	s.videos = append(s.videos, sentVideo{chatID: chatID, fileID: fileID, caption: caption})
	return nil
}

func (s *fakeSender) lastText() string {
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1].text
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBot wires a Bot over fakes, without a Telegram connection.
func newTestBot(store *fakeStore, sender *fakeSender, staticAdmins []int64) *Bot {
	log := discardLogger()
	resolver := admins.New(log, staticAdmins, store)
	kb := &Bot{
		repo:   store,
		admins: resolver,
		out:    sender,
		log:    log,
	}
	kb.uploads = newDialogue(log, store, resolver, sender)
	kb.router = newRouter(log, store, resolver, sender)
	return kb
}

func tgUser(id int64) *models.User {
	return &models.User{ID: id, FirstName: "Test", Username: "tester"}
}

// commandMsg builds a message carrying a bot-command entity, the way
// Telegram marks "/cmd args" texts.
func commandMsg(userID int64, text string) *models.Message {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return &models.Message{
		Text: text,
		From: tgUser(userID),
		Chat: models.Chat{ID: userID},
		Entities: []models.MessageEntity{{
			Type:   models.MessageEntityTypeBotCommand,
			Offset: 0,
			Length: cmdLen,
		}},
	}
}
