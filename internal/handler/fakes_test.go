package handler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/devconnect/internal/auth"
	"github.com/hitoshi/devconnect/internal/middleware"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/post"
	"github.com/hitoshi/devconnect/internal/profile"
	"github.com/hitoshi/devconnect/internal/repository"
	"github.com/hitoshi/devconnect/internal/security"
	"github.com/hitoshi/devconnect/internal/user"
	"golang.org/x/crypto/bcrypt"
)

// memStore はリポジトリ一式をメモリ上で実装するフェイク。
// 全操作を1つのミューテックスで直列化する。
type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	posts    map[string]*model.Post
	postSeq  []string
	profiles map[string]*model.Profile
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*model.User),
		posts:    make(map[string]*model.Post),
		profiles: make(map[string]*model.Profile),
	}
}

type memUserRepo struct{ s *memStore }
type memPostRepo struct{ s *memStore }
type memProfileRepo struct{ s *memStore }
type memAccountRemover struct{ s *memStore }

var (
	_ repository.UserRepository    = memUserRepo{}
	_ repository.PostRepository    = memPostRepo{}
	_ repository.ProfileRepository = memProfileRepo{}
	_ repository.AccountRemover    = memAccountRemover{}
)

func (r memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r memUserRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.NewUserExistsError()
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func copyPost(p *model.Post) *model.Post {
	c := *p
	c.Likes = append([]model.Like(nil), p.Likes...)
	c.Comments = append([]model.Comment(nil), p.Comments...)
	return &c
}

func (r memPostRepo) FindByID(_ context.Context, id string) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.posts[id]; ok {
		return copyPost(p), nil
	}
	return nil, nil
}

func (r memPostRepo) List(_ context.Context) ([]*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Post
	for i := len(r.s.postSeq) - 1; i >= 0; i-- {
		if p, ok := r.s.posts[r.s.postSeq[i]]; ok {
			out = append(out, copyPost(p))
		}
	}
	return out, nil
}

func (r memPostRepo) Create(_ context.Context, p *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts[p.ID] = copyPost(p)
	r.s.postSeq = append(r.s.postSeq, p.ID)
	return nil
}

func (r memPostRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.posts, id)
	return nil
}

func (s *memStore) deletePostsLocked(userID string) {
	for id, p := range s.posts {
		if p.UserID == userID {
			delete(s.posts, id)
		}
	}
}

func (r memPostRepo) Mutate(_ context.Context, id string, fn func(*model.Post) error) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	working := copyPost(p)
	if err := fn(working); err != nil {
		return nil, err
	}
	r.s.posts[id] = copyPost(working)
	return working, nil
}

func copyProfile(p *model.Profile) *model.Profile {
	c := *p
	c.Skills = append([]string(nil), p.Skills...)
	c.Experience = append([]model.Experience(nil), p.Experience...)
	c.Education = append([]model.Education(nil), p.Education...)
	return &c
}

// withUser はusersテーブルとの結合を模してプロフィールのuserを埋める。
func (s *memStore) withUser(p *model.Profile) *model.Profile {
	c := copyProfile(p)
	if u, ok := s.users[p.User.ID]; ok {
		c.User = model.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return c
}

func (r memProfileRepo) FindByUserID(_ context.Context, userID string) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.profiles[userID]; ok {
		return r.s.withUser(p), nil
	}
	return nil, nil
}

func (r memProfileRepo) List(_ context.Context) ([]*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Profile
	for _, p := range r.s.profiles {
		out = append(out, r.s.withUser(p))
	}
	return out, nil
}

func (r memProfileRepo) Upsert(_ context.Context, userID string, f model.ProfileFields) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		p = &model.Profile{ID: uuid.New().String(), User: model.UserSummary{ID: userID}, CreatedAt: time.Now()}
		r.s.profiles[userID] = p
	}
	for _, pair := range []struct {
		dst *string
		src *string
	}{
		{&p.Company, f.Company}, {&p.Website, f.Website}, {&p.Location, f.Location},
		{&p.Bio, f.Bio}, {&p.Status, f.Status}, {&p.GitHubUsername, f.GitHubUsername},
		{&p.Social.YouTube, f.Social.YouTube}, {&p.Social.Twitter, f.Social.Twitter},
		{&p.Social.Facebook, f.Social.Facebook}, {&p.Social.LinkedIn, f.Social.LinkedIn},
		{&p.Social.Instagram, f.Social.Instagram},
	} {
		if pair.src != nil {
			*pair.dst = *pair.src
		}
	}
	if f.Skills != nil {
		p.Skills = f.Skills
	}
	return r.s.withUser(p), nil
}

func (r memProfileRepo) MutateByUserID(_ context.Context, userID string, fn func(*model.Profile) error) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, nil
	}
	working := r.s.withUser(p)
	if err := fn(working); err != nil {
		return nil, err
	}
	r.s.profiles[userID] = copyProfile(working)
	return working, nil
}

func (r memAccountRemover) RemoveAccount(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, userID)
	r.s.deletePostsLocked(userID)
	delete(r.s.users, userID)
	return nil
}

// newTestRouter は実サービスとインメモリリポジトリで構成したルーターを返す。
func newTestRouter(t *testing.T) (http.Handler, *memStore) {
	t.Helper()
	store := newMemStore()
	tokens := auth.NewTokenService(auth.TokenConfig{Secret: []byte("router-test-secret")})
	sanitizer := security.NewTextSanitizer()

	deps := &RouterDeps{
		TokenVerifier:     tokens,
		CORSAllowedOrigin: "http://localhost:3000",
		AuthService:       auth.NewService(memUserRepo{store}, auth.NewBcryptHasher(bcrypt.MinCost), tokens),
		PostService:       post.NewService(memPostRepo{store}, memUserRepo{store}, sanitizer),
		ProfileService:    profile.NewService(memProfileRepo{store}, sanitizer),
		UserService:       user.NewService(memProfileRepo{store}, memAccountRemover{store}),
	}
	return NewRouter(deps), store
}

// withIdentity はテスト用にidentityをコンテキストに注入するヘルパー。
func withIdentity(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), model.Identity{ID: userID}))
}
