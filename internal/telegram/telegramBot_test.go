package telegram

import (
	"context"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func textUpdate(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Text: text,
		From: tgUser(userID),
		Chat: models.Chat{ID: userID},
	}}
}

func videoUpdate(userID int64, fileID string) *models.Update {
	return &models.Update{Message: &models.Message{
		From:  tgUser(userID),
		Chat:  models.Chat{ID: userID},
		Video: &models.Video{FileID: fileID},
	}}
}

func TestDefaultHandlerUpsertsUserForEveryMessage(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sender := &fakeSender{}
	kb := newTestBot(store, sender, []int64{1})
	ctx := context.Background()

	kb.defaultHandler(ctx, nil, textUpdate(100, "salom"))
	kb.defaultHandler(ctx, nil, videoUpdate(1, "file-abc"))
	upd := textUpdate(1, "/stats")
	upd.Message.Entities = []models.MessageEntity{{
		Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 6,
	}}
	kb.defaultHandler(ctx, nil, upd)

	if len(store.userIDs) != 3 {
		t.Fatalf("every inbound message must upsert the user, got %v", store.userIDs)
	}
}

func TestDefaultHandlerRoutesDraftInputToDialogue(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sender := &fakeSender{}
	kb := newTestBot(store, sender, []int64{1})
	ctx := context.Background()

	kb.defaultHandler(ctx, nil, videoUpdate(1, "file-abc"))
	if !kb.uploads.active(1) {
		t.Fatalf("admin video should start an upload")
	}

	// "5" mid-dialogue is the catalog number, not a lookup.
	kb.defaultHandler(ctx, nil, textUpdate(1, "5"))
	if len(sender.videos) != 0 {
		t.Fatalf("draft input must not trigger a catalog lookup")
	}
	if !strings.Contains(sender.lastText(), "nomini") {
		t.Fatalf("expected title prompt, got %q", sender.lastText())
	}
}

func TestDefaultHandlerIgnoresUpdatesWithoutMessage(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sender := &fakeSender{}
	kb := newTestBot(store, sender, nil)

	kb.defaultHandler(context.Background(), nil, &models.Update{})
	if len(store.userIDs) != 0 || len(sender.texts) != 0 {
		t.Fatalf("empty update should be a no-op")
	}
}

func TestSplitTextIntoChunks(t *testing.T) {
	t.Parallel()

	chunks := splitTextIntoChunks(strings.Repeat("a", 10), 4)
	if len(chunks) != 3 {
		t.Fatalf("chunk count mismatch: %d", len(chunks))
	}
	for _, c := range chunks {
		if len([]rune(c)) > 4 {
			t.Fatalf("chunk too long: %q", c)
		}
	}
}
