package post

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/hitoshi/devconnect/internal/repository"
	"github.com/hitoshi/devconnect/internal/security"
)

// --- フェイク ---

// memPostRepo はMutateの行ロックをミューテックスで再現するインメモリ実装。
type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*model.Post
	order []string
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*model.Post)}
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Likes = append([]model.Like(nil), p.Likes...)
	c.Comments = append([]model.Comment(nil), p.Comments...)
	return &c
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

func (r *memPostRepo) List(_ context.Context) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Post, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if p, ok := r.posts[r.order[i]]; ok {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (r *memPostRepo) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = clonePost(post)
	r.order = append(r.order, post.ID)
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) Mutate(_ context.Context, id string, fn func(*model.Post) error) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	working := clonePost(p)
	if err := fn(working); err != nil {
		return nil, err
	}
	r.posts[id] = clonePost(working)
	return working, nil
}

type mockUserRepo struct {
	users map[string]*model.User
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}
func (m *mockUserRepo) FindByEmail(context.Context, string) (*model.User, error) { return nil, nil }
func (m *mockUserRepo) Create(context.Context, *model.User) error                { return nil }

var (
	_ repository.PostRepository = (*memPostRepo)(nil)
	_ repository.UserRepository = (*mockUserRepo)(nil)
)

var (
	alice = model.Identity{ID: "11111111-1111-4111-8111-111111111111"}
	bob   = model.Identity{ID: "22222222-2222-4222-8222-222222222222"}
)

func newTestService() (*Service, *memPostRepo) {
	repo := newMemPostRepo()
	users := &mockUserRepo{users: map[string]*model.User{
		alice.ID: {ID: alice.ID, Name: "Alice", Avatar: "//avatar/alice"},
		bob.ID:   {ID: bob.ID, Name: "Bob", Avatar: "//avatar/bob"},
	}}
	return NewService(repo, users, security.NewTextSanitizer()), repo
}

func assertAPIError(t *testing.T, err error, code, msg string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError %s", err, code)
	}
	if apiErr.Code != code || apiErr.Message != msg {
		t.Errorf("err = [%s] %q, want [%s] %q", apiErr.Code, apiErr.Message, code, msg)
	}
}

// --- テスト ---

func TestCreate_CopiesAuthorAndSanitizes(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), alice, "<b>Hello</b> world")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Text != "Hello world" {
		t.Errorf("Text = %q", p.Text)
	}
	if p.Name != "Alice" || p.Avatar != "//avatar/alice" || p.UserID != alice.ID {
		t.Errorf("author fields not copied: %+v", p)
	}
	if uuid.Validate(p.ID) != nil {
		t.Errorf("ID = %q is not a uuid", p.ID)
	}
}

func TestCreate_EmptyText(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), alice, "<script>x</script>")
	assertAPIError(t, err, model.ErrCodeValidation, "Text is required")
}

func TestGet_MalformedAndMissingID(t *testing.T) {
	svc, _ := newTestService()

	for _, id := range []string{"not-a-uuid", uuid.New().String()} {
		_, err := svc.Get(context.Background(), id)
		assertAPIError(t, err, model.ErrCodeNotFound, "Post not found")
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, alice, "mine")

	err := svc.Delete(ctx, bob, p.ID)
	assertAPIError(t, err, model.ErrCodeUnauthorized, "User not authorized")
	if got, _ := repo.FindByID(ctx, p.ID); got == nil {
		t.Fatal("post must remain after unauthorized delete")
	}

	if err := svc.Delete(ctx, alice, p.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := repo.FindByID(ctx, p.ID); got != nil {
		t.Error("post should be deleted")
	}
}

func TestLike_Guards(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, alice, "hello")

	likes, err := svc.Like(ctx, bob, p.ID)
	if err != nil {
		t.Fatalf("Like() error: %v", err)
	}
	if len(likes) != 1 || likes[0].UserID != bob.ID {
		t.Fatalf("likes = %+v", likes)
	}

	_, err = svc.Like(ctx, bob, p.ID)
	assertAPIError(t, err, model.ErrCodeDuplicateAction, "Post already liked")

	// 2件目のいいねが失敗してもいいね数は変わらない
	got, _ := svc.Get(ctx, p.ID)
	if len(got.Likes) != 1 {
		t.Errorf("likes after duplicate = %d, want 1", len(got.Likes))
	}

	_, err = svc.Unlike(ctx, alice, p.ID)
	assertAPIError(t, err, model.ErrCodeNoSuchAction, "Post has not yet been liked")
}

func TestLikeUnlike_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, alice, "hello")

	if _, err := svc.Like(ctx, alice, p.ID); err != nil {
		t.Fatal(err)
	}
	likes, err := svc.Like(ctx, bob, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if likes[0].UserID != bob.ID {
		t.Errorf("newest like should come first, got %+v", likes)
	}

	likes, err = svc.Unlike(ctx, alice, p.ID)
	if err != nil {
		t.Fatalf("Unlike() error: %v", err)
	}
	if len(likes) != 1 || likes[0].UserID != bob.ID {
		t.Errorf("remaining likes = %+v, want only bob", likes)
	}
}

func TestLike_UnknownPost(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Like(context.Background(), alice, uuid.New().String())
	assertAPIError(t, err, model.ErrCodeNotFound, "Post not found")
}

func TestComment_PrependsNewest(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, alice, "hello")

	if _, err := svc.Comment(ctx, alice, p.ID, "first"); err != nil {
		t.Fatal(err)
	}
	comments, err := svc.Comment(ctx, bob, p.ID, "second")
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 2 || comments[0].Text != "second" || comments[0].Name != "Bob" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, alice, "hello")
	comments, _ := svc.Comment(ctx, bob, p.ID, "bob's comment")
	commentID := comments[0].ID

	// 投稿者であっても他人のコメントは削除できない
	_, err := svc.DeleteComment(ctx, alice, p.ID, commentID)
	assertAPIError(t, err, model.ErrCodeUnauthorized, "User not authorized")
	if got, _ := svc.Get(ctx, p.ID); len(got.Comments) != 1 {
		t.Fatalf("rejected delete must leave comments intact: %+v", got.Comments)
	}

	_, err = svc.DeleteComment(ctx, bob, p.ID, uuid.New().String())
	assertAPIError(t, err, model.ErrCodeNotFound, "Comment does not exist")

	remaining, err := svc.DeleteComment(ctx, bob, p.ID, commentID)
	if err != nil {
		t.Fatalf("DeleteComment() error: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining = %+v", remaining)
	}
}

// 同一ユーザーの並行いいねは1件だけ成功すること
func TestLike_ConcurrentSameIdentity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, alice, "hello")

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Like(ctx, bob, p.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, model.ErrDuplicateAction) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful likes = %d, want 1", ok)
	}
}
