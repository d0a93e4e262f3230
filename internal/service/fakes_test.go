package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ---------------------------------------------------------------------------
// In-memory ChatRepository
// ---------------------------------------------------------------------------

type fakeChatRepo struct {
	mu    sync.Mutex
	chats map[int64]*models.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[int64]*models.Chat)}
}

// seedQueue installs a queue directly, bypassing the repository contract.
func (r *fakeChatRepo) seedQueue(chatID int64, q *models.Queue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		chat = &models.Chat{ChatID: chatID, Title: "test chat", Queues: make(map[string]*models.Queue)}
		r.chats[chatID] = chat
	}
	chat.Queues[q.ID] = q
}

func (r *fakeChatRepo) getQueueLocked(chatID int64, queueID string) (*models.Queue, error) {
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	q, ok := chat.Queues[queueID]
	if !ok {
		return nil, models.ErrQueueNotFound
	}
	return q, nil
}

func (r *fakeChatRepo) GetChat(ctx context.Context, chatID int64) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	return chat, nil
}

func (r *fakeChatRepo) CreateOrGetChat(ctx context.Context, chatID int64, title string) (*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		chat = &models.Chat{ChatID: chatID, Title: title, Queues: make(map[string]*models.Queue)}
		r.chats[chatID] = chat
	}
	chat.Title = title
	return chat, nil
}

func (r *fakeChatRepo) GetAllChats(ctx context.Context) ([]*models.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chats := make([]*models.Chat, 0, len(r.chats))
	for _, chat := range r.chats {
		chats = append(chats, chat)
	}
	return chats, nil
}

func (r *fakeChatRepo) GetQueue(ctx context.Context, chatID int64, queueID string) (*models.Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return nil, err
	}
	cp := *q
	cp.Members = append([]models.Member(nil), q.Members...)
	return &cp, nil
}

func (r *fakeChatRepo) GetQueueByName(ctx context.Context, chatID int64, name string) (*models.Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	for _, q := range chat.Queues {
		if q.Name == name {
			cp := *q
			cp.Members = append([]models.Member(nil), q.Members...)
			return &cp, nil
		}
	}
	return nil, models.ErrQueueNotFound
}

func (r *fakeChatRepo) CreateQueue(ctx context.Context, chatID int64, title, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		chat = &models.Chat{ChatID: chatID, Title: title, Queues: make(map[string]*models.Queue)}
		r.chats[chatID] = chat
	}
	for _, q := range chat.Queues {
		if q.Name == name {
			return q.ID, nil
		}
	}
	id := models.NewQueueID()
	chat.Queues[id] = &models.Queue{ID: id, Name: name, LastModified: time.Now().UTC()}
	return id, nil
}

func (r *fakeChatRepo) DeleteQueue(ctx context.Context, chatID int64, queueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return models.ErrChatNotFound
	}
	if _, ok := chat.Queues[queueID]; !ok {
		return models.ErrQueueNotFound
	}
	delete(chat.Queues, queueID)
	if len(chat.Queues) == 0 {
		delete(r.chats, chatID)
	}
	return nil
}

func (r *fakeChatRepo) RenameQueue(ctx context.Context, chatID int64, queueID, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.Name = newName
	q.LastModified = time.Now().UTC()
	return nil
}

func (r *fakeChatRepo) SetQueueDescription(ctx context.Context, chatID int64, queueID, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.Description = description
	q.LastModified = time.Now().UTC()
	return nil
}

func (r *fakeChatRepo) AddMember(ctx context.Context, chatID int64, queueID string, m models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.Members = append(q.Members, m)
	q.LastModified = time.Now().UTC()
	return nil
}

func (r *fakeChatRepo) UpdateMembers(ctx context.Context, chatID int64, queueID string, members []models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.Members = append([]models.Member(nil), members...)
	q.LastModified = time.Now().UTC()
	return nil
}

func (r *fakeChatRepo) SetQueueMessageID(ctx context.Context, chatID int64, queueID string, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.LastQueueMessageID = &messageID
	return nil
}

func (r *fakeChatRepo) GetListMessageID(ctx context.Context, chatID int64) (*int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	return chat.LastListMessageID, nil
}

func (r *fakeChatRepo) SetListMessageID(ctx context.Context, chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return models.ErrChatNotFound
	}
	chat.LastListMessageID = &messageID
	return nil
}

func (r *fakeChatRepo) ClearListMessageID(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return models.ErrChatNotFound
	}
	chat.LastListMessageID = nil
	return nil
}

func (r *fakeChatRepo) GetQueueExpiration(ctx context.Context, chatID int64, queueID string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return nil, err
	}
	return q.Expiration, nil
}

func (r *fakeChatRepo) SetQueueExpiration(ctx context.Context, chatID int64, queueID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.Expiration = &expiresAt
	return nil
}

func (r *fakeChatRepo) ClearQueueExpiration(ctx context.Context, chatID int64, queueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, err := r.getQueueLocked(chatID, queueID)
	if err != nil {
		return err
	}
	q.Expiration = nil
	return nil
}

// ---------------------------------------------------------------------------
// In-memory UserRepository
// ---------------------------------------------------------------------------

type fakeUserRepo struct {
	mu       sync.Mutex
	profiles map[int64]*models.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{profiles: make(map[int64]*models.UserProfile)}
}

func (r *fakeUserRepo) EnsureProfile(ctx context.Context, userID int64, username string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		profile = &models.UserProfile{UserID: userID, DisplayNames: make(map[string]string)}
		r.profiles[userID] = profile
	}
	profile.Username = username
	return profile, nil
}

func (r *fakeUserRepo) SetDisplayName(ctx context.Context, userID int64, scope, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		profile = &models.UserProfile{UserID: userID, DisplayNames: make(map[string]string)}
		r.profiles[userID] = profile
	}
	if value == "" {
		delete(profile.DisplayNames, scope)
		return nil
	}
	profile.DisplayNames[scope] = value
	return nil
}

// ---------------------------------------------------------------------------
// Recording Messenger
// ---------------------------------------------------------------------------

type fakeMessenger struct {
	mu         sync.Mutex
	sent       []string // event log: "send q1", "edit q1", "delete 5", ...
	ephemerals []string
	nextMsgID  int
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextMsgID: 100}
}

func (m *fakeMessenger) record(format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, fmt.Sprintf(format, args...))
}

func (m *fakeMessenger) events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func (m *fakeMessenger) SendQueue(ctx context.Context, chatID int64, q *models.Queue) error {
	m.record("send %s", q.ID)
	return nil
}

func (m *fakeMessenger) EditQueue(ctx context.Context, chatID int64, q *models.Queue, triggerMessageID int) error {
	m.record("edit %s", q.ID)
	return nil
}

func (m *fakeMessenger) DeleteMessage(chatID int64, messageID int) {
	m.record("delete %d", messageID)
}

func (m *fakeMessenger) ShowSwapPrompt(ctx context.Context, chatID int64, q *models.Queue, swapID, requesterName, targetName string) (int, error) {
	m.mu.Lock()
	m.nextMsgID++
	id := m.nextMsgID
	m.mu.Unlock()
	m.record("prompt %s", swapID)
	return id, nil
}

func (m *fakeMessenger) ShowList(ctx context.Context, chat *models.Chat, triggerMessageID int) error {
	m.record("list %d", chat.ChatID)
	return nil
}

func (m *fakeMessenger) HideList(ctx context.Context, chatID int64) error {
	m.record("hidelist %d", chatID)
	return nil
}

func (m *fakeMessenger) SendEphemeral(chatID int64, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ephemerals = append(m.ephemerals, text)
}

// newTestService wires a Service over the in-memory fakes.
func newTestService() (*Service, *fakeChatRepo, *fakeUserRepo, *fakeMessenger) {
	chats := newFakeChatRepo()
	users := newFakeUserRepo()
	msg := newFakeMessenger()
	svc := New(testLogger(), chats, users, msg)
	return svc, chats, users, msg
}
