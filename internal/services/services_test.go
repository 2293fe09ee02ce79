package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
)

func ctx() context.Context { return context.Background() }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, pgrepo.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type repos struct {
	profiles      pgrepo.ProfileRepository
	jobs          pgrepo.JobRepository
	applications  pgrepo.ApplicationRepository
	notifications pgrepo.NotificationRepository
	favorites     pgrepo.FavoriteRepository
}

func newRepos(t *testing.T) (*gorm.DB, repos) {
	db := setupTestDB(t)
	return db, repos{
		profiles:      pgrepo.NewProfileRepo(db),
		jobs:          pgrepo.NewJobRepo(db),
		applications:  pgrepo.NewApplicationRepo(db),
		notifications: pgrepo.NewNotificationRepo(db),
		favorites:     pgrepo.NewFavoriteRepo(db),
	}
}

func seedProfile(t *testing.T, db *gorm.DB, role models.UserRole, name string) *models.Profile {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Profile{
		ID:          uuid.NewString(),
		FullName:    name,
		Role:        role,
		JobTitle:    "Comptable",
		CompanyName: name + " SARL",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedJob(t *testing.T, db *gorm.DB, recruiterID, title string, status models.JobStatus) *models.Job {
	t.Helper()
	now := time.Now().UTC()
	j := &models.Job{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		Title:       title,
		CompanyName: "Sahel Conseil",
		Location:    "N'Djamena",
		Category:    "Finance",
		Type:        "CDI",
		Tags:        []string{"Excel"},
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(j).Error)
	return j
}

func requireCode(t *testing.T, err error, code utils.Code) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, utils.IsCode(err, code), "want %s, got %v", code, err)
}

func pdf(name string) *Upload {
	body := []byte("%PDF-1.4 test")
	return &Upload{FileName: name, ContentType: "application/pdf", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeUploader struct {
	objects map[string][]byte
	removed []string
	fail    error
}

func newFakeUploader() *fakeUploader { return &fakeUploader{objects: map[string][]byte{}} }

func (u *fakeUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if u.fail != nil {
		return "", u.fail
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.objects[objectName] = b
	return "https://storage.googleapis.com/yoojob-test/" + objectName, nil
}

func (u *fakeUploader) Remove(_ context.Context, objectName string) error {
	delete(u.objects, objectName)
	u.removed = append(u.removed, objectName)
	return nil
}

type recordingBus struct {
	mu       sync.Mutex
	events   []models.ApplicationEvent
	messages []*models.Message
	fail     error
}

func (b *recordingBus) PublishApplication(_ context.Context, ev models.ApplicationEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return b.fail
}

func (b *recordingBus) BroadcastMessage(_ context.Context, m *models.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, m)
	return b.fail
}

type stubSuggester struct {
	tags  []string
	err   error
	calls int
}

func (s *stubSuggester) SuggestTags(context.Context, string, string, int) ([]string, error) {
	s.calls++
	return s.tags, s.err
}

// memMessages mirrors the mongo message repository in memory.
type memMessages struct {
	mu   sync.Mutex
	rows []models.Message
	fail error
}

func (r *memMessages) Insert(_ context.Context, m *models.Message) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = primitive.NewObjectID()
	r.rows = append(r.rows, *m)
	return nil
}

func (r *memMessages) ListThread(_ context.Context, conversationID string, limit int64) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.rows {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[int64(len(out))-limit:]
	}
	return out, nil
}

func (r *memMessages) Conversations(_ context.Context, userID string, _ int64) ([]models.Conversation, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byID := map[string]*models.Conversation{}
	for _, m := range r.rows {
		if m.SenderID != userID && m.RecipientID != userID {
			continue
		}
		c, ok := byID[m.ConversationID]
		if !ok {
			c = &models.Conversation{ConversationID: m.ConversationID}
			byID[m.ConversationID] = c
		}
		if !m.CreatedAt.Before(c.LastMessage.CreatedAt) {
			c.LastMessage = m
		}
		if m.RecipientID == userID && !m.Read {
			c.Unread++
		}
	}
	out := make([]models.Conversation, 0, len(byID))
	for _, c := range byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt) })
	return out, nil
}

func (r *memMessages) MarkRead(_ context.Context, conversationID, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.rows {
		if r.rows[i].ConversationID == conversationID && r.rows[i].RecipientID == recipientID && !r.rows[i].Read {
			r.rows[i].Read = true
			n++
		}
	}
	return n, nil
}

func (r *memMessages) CountUnread(_ context.Context, recipientID string) (int64, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.rows {
		if m.RecipientID == recipientID && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeAuth struct {
	users     map[string]string // email -> password
	ids       map[string]string // email -> user id
	signedOut []string
	lastMeta  map[string]any
	signUpErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]string{}, ids: map[string]string{}}
}

func (a *fakeAuth) session(email string) *models.AuthSession {
	return &models.AuthSession{
		AccessToken: "token-" + a.ids[email],
		TokenType:   "bearer",
		ExpiresIn:   3600,
		User:        models.User{ID: a.ids[email], Email: email},
	}
}

func (a *fakeAuth) SignUp(_ context.Context, email, password string, metadata map[string]any) (*models.AuthSession, error) {
	if a.signUpErr != nil {
		return nil, a.signUpErr
	}
	if _, ok := a.users[email]; ok {
		return nil, utils.E(utils.CodeConflict, "fakeAuth.SignUp", "user already registered", nil)
	}
	a.users[email] = password
	a.ids[email] = uuid.NewString()
	a.lastMeta = metadata
	return a.session(email), nil
}

func (a *fakeAuth) SignIn(_ context.Context, email, password string) (*models.AuthSession, error) {
	if pw, ok := a.users[email]; !ok || pw != password {
		return nil, utils.E(utils.CodeUnauthorized, "fakeAuth.SignIn", "invalid login credentials", nil)
	}
	return a.session(email), nil
}

func (a *fakeAuth) SignOut(_ context.Context, accessToken string) error {
	a.signedOut = append(a.signedOut, accessToken)
	return nil
}

func (a *fakeAuth) AuthorizeURL(provider, redirectTo string) (string, error) {
	return "https://auth.test/authorize?provider=" + provider + "&redirect_to=" + redirectTo, nil
}

var errBoom = errors.New("boom")
