package bot

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"recipebot/internal/entity"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/memory"
	"recipebot/internal/service"
	"recipebot/pkg/extractor"
	"recipebot/pkg/resolver"
	"recipebot/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	testUser int64 = 1001
	testChat int64 = 2002
)

type fakeRecipes struct {
	mu      sync.Mutex
	recipes []*entity.Recipe
	tags    map[int64][]string

	addCalls    int
	updateCalls int
	deleteCalls int

	failList error
}

var _ service.IRecipeService = (*fakeRecipes)(nil)

func newFakeRecipes() *fakeRecipes {
	return &fakeRecipes{tags: map[int64][]string{}}
}

func clone(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Ingredients = append([]entity.Ingredient(nil), r.Ingredients...)
	c.Steps = append([]string(nil), r.Steps...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

func (f *fakeRecipes) seed(owner int64, title string, cat entity.Category, tags ...string) *entity.Recipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &entity.Recipe{
		Id:          uuid.New(),
		Title:       title,
		Ingredients: []entity.Ingredient{{Name: "water", Group: "Main"}},
		Steps:       []string{"boil"},
		Category:    cat,
		Source:      entity.SourceManual,
		UserId:      owner,
		Tags:        tags,
	}
	f.recipes = append(f.recipes, r)
	for _, t := range tags {
		if !slices.Contains(f.tags[owner], t) {
			f.tags[owner] = append(f.tags[owner], t)
		}
	}
	return clone(r)
}

func (f *fakeRecipes) Add(_ context.Context, r *entity.Recipe) (*entity.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Title == "" || len(r.Ingredients) == 0 || len(r.Steps) == 0 || r.Category == "" {
		return nil, service.ErrInvalidRecipe
	}
	f.addCalls++
	saved := clone(r)
	saved.Id = uuid.New()
	f.recipes = append(f.recipes, saved)
	return clone(saved), nil
}

func (f *fakeRecipes) find(owner int64, id uuid.UUID) int {
	for i, r := range f.recipes {
		if r.Id == id && r.UserId == owner {
			return i
		}
	}
	return -1
}

func (f *fakeRecipes) Get(_ context.Context, owner int64, id uuid.UUID) (*entity.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(owner, id)
	if i < 0 {
		return nil, contract.ErrRecipeNotFound
	}
	return clone(f.recipes[i]), nil
}

func (f *fakeRecipes) Update(_ context.Context, r *entity.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(r.UserId, r.Id)
	if i < 0 {
		return contract.ErrRecipeNotFound
	}
	f.updateCalls++
	f.recipes[i] = clone(r)
	return nil
}

func (f *fakeRecipes) Delete(_ context.Context, owner int64, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(owner, id)
	if i < 0 {
		return contract.ErrRecipeNotFound
	}
	f.deleteCalls++
	f.recipes = slices.Delete(f.recipes, i, i+1)
	return nil
}

func (f *fakeRecipes) ListByOwner(ctx context.Context, owner int64) ([]*entity.Recipe, error) {
	return f.ListFiltered(ctx, entity.RecipeFilter{UserId: owner})
}

func (f *fakeRecipes) ListFiltered(_ context.Context, filter entity.RecipeFilter) ([]*entity.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var out []*entity.Recipe
	for _, r := range f.recipes {
		if r.UserId != filter.UserId {
			continue
		}
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, r.Category) {
			continue
		}
		if len(filter.TagNames) > 0 && !slices.ContainsFunc(r.Tags, func(t string) bool {
			return slices.Contains(filter.TagNames, t)
		}) {
			continue
		}
		out = append(out, clone(r))
	}
	return out, nil
}

func (f *fakeRecipes) OwnerTags(_ context.Context, owner int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := append([]string(nil), f.tags[owner]...)
	slices.Sort(names)
	return names, nil
}

func (f *fakeRecipes) GetOrCreateTag(_ context.Context, owner int64, name string) (*entity.RecipeTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(f.tags[owner], name) {
		f.tags[owner] = append(f.tags[owner], name)
	}
	return &entity.RecipeTag{Id: uuid.New(), Name: name, UserId: owner}, nil
}

func (f *fakeRecipes) all() []*entity.Recipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Recipe, len(f.recipes))
	for i, r := range f.recipes {
		out[i] = clone(r)
	}
	return out
}

type fakeUsers struct {
	registered map[int64]bool
	testers    []int64
}

func (f *fakeUsers) IsRegistered(_ context.Context, id int64) (bool, error) {
	return f.registered[id], nil
}

func (f *fakeUsers) Register(_ context.Context, u *entity.User) (*entity.User, error) {
	if len(f.testers) > 0 && !slices.Contains(f.testers, u.TelegramId) {
		return nil, service.ErrNotTester
	}
	f.registered[u.TelegramId] = true
	return u, nil
}

type fakeResolver struct {
	res   *resolver.Resolution
	err   error
	calls int
}

func (f *fakeResolver) Validate(raw string) error {
	return resolver.ValidateURL(raw)
}

func (f *fakeResolver) Resolve(context.Context, string) (*resolver.Resolution, error) {
	f.calls++
	return f.res, f.err
}

type fakeExtractor struct {
	fields *extractor.Fields
	err    error
	input  string
}

func (f *fakeExtractor) Extract(_ context.Context, text string) (*extractor.Fields, error) {
	f.input = text
	return f.fields, f.err
}

type outMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  *Keyboard
	Edited    bool
}

// recorder is a Responder that keeps everything it was asked to show.
type recorder struct {
	mu     sync.Mutex
	nextID int
	out    []outMessage
}

func (r *recorder) Send(_ context.Context, chatID int64, text string, kb *Keyboard) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.out = append(r.out, outMessage{ChatID: chatID, MessageID: r.nextID, Text: text, Keyboard: kb})
	return r.nextID, nil
}

func (r *recorder) Edit(_ context.Context, chatID int64, messageID int, text string, kb *Keyboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, outMessage{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: kb, Edited: true})
	return nil
}

func (r *recorder) last() outMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.out) == 0 {
		return outMessage{}
	}
	return r.out[len(r.out)-1]
}

// buttons flattens the inline keyboard of the last message.
func (r *recorder) buttons() []Button {
	var out []Button
	kb := r.last().Keyboard
	if kb == nil {
		return nil
	}
	for _, row := range kb.Rows {
		out = append(out, row...)
	}
	return out
}

func (r *recorder) labels() []string {
	var out []string
	for _, b := range r.buttons() {
		out = append(out, b.Text)
	}
	return out
}

type harness struct {
	t         *testing.T
	ctx       context.Context
	recipes   *fakeRecipes
	users     *fakeUsers
	resolver  *fakeResolver
	extractor *fakeExtractor
	out       *recorder
	sessions  *memory.SessionRepository
	disp      *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, Settings{
		PageSize:        5,
		SessionTTL:      time.Hour,
		EditIdleTimeout: 5 * time.Minute,
	})
}

func newHarnessWith(t *testing.T, settings Settings) *harness {
	t.Helper()
	h := &harness{
		t:         t,
		ctx:       context.Background(),
		recipes:   newFakeRecipes(),
		users:     &fakeUsers{registered: map[int64]bool{testUser: true}},
		resolver:  &fakeResolver{},
		extractor: &fakeExtractor{},
		out:       &recorder{},
		sessions:  memory.NewSessionRepository(time.Hour),
	}
	h.disp = NewDispatcher(Dependencies{
		Sessions:  h.sessions,
		Recipes:   h.recipes,
		Users:     h.users,
		Extractor: h.extractor,
		Resolver:  h.resolver,
		Responder: h.out,
		Logger:    logger.NewNopLogger(),
		Settings:  settings,
	})
	return h
}

func (h *harness) handle(ev Event) {
	h.t.Helper()
	ev.UserID, ev.ChatID = testUser, testChat
	require.NoError(h.t, h.disp.Handle(h.ctx, ev))
}

func (h *harness) command(name, args string) {
	h.t.Helper()
	h.handle(Event{Type: EventCommand, Command: name, Args: args})
}

func (h *harness) text(text string) {
	h.t.Helper()
	h.handle(Event{Type: EventText, Text: text})
}

// press simulates tapping a button on the most recent screen.
func (h *harness) press(data string) {
	h.t.Helper()
	h.handle(Event{Type: EventCallback, Data: data, MessageID: h.out.last().MessageID, CallbackID: "cb"})
}

func (h *harness) session() *store.Session {
	h.t.Helper()
	s, found, err := h.sessions.Get(h.ctx, store.Key(testUser, testChat))
	require.NoError(h.t, err)
	if !found {
		return store.NewSession(testUser, testChat)
	}
	return s
}

// pressLabel taps the button of the last message whose text contains label.
func (h *harness) pressLabel(label string) {
	h.t.Helper()
	for _, b := range h.out.buttons() {
		if strings.Contains(b.Text, label) {
			h.press(b.Data)
			return
		}
	}
	h.t.Fatalf("no button %q in %+v", label, h.out.buttons())
}
