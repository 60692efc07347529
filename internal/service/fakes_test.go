package service

import (
	"context"
	"slices"
	"sync"

	"recipebot/internal/entity"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/specification"
	"recipebot/internal/repository/unitofwork"
	"recipebot/pkg/events"

	"github.com/google/uuid"
)

// memDB is a tiny in-memory stand-in for the gorm repositories. It only
// understands the specifications the services actually use.
type memDB struct {
	mu      sync.Mutex
	recipes map[uuid.UUID]*entity.Recipe
	tags    []*entity.RecipeTag
	users   []*entity.User
	commits int
}

func newMemDB() *memDB {
	return &memDB{recipes: map[uuid.UUID]*entity.Recipe{}}
}

type memFactory struct{ db *memDB }

func (f memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return &memUoW{db: f.db} }

type memUoW struct{ db *memDB }

func (u *memUoW) Begin(ctx context.Context) error { return nil }
func (u *memUoW) Rollback() error                 { return nil }

func (u *memUoW) Commit() error {
	u.db.commits++
	return nil
}

func (u *memUoW) UserRepository() contract.UserRepository           { return memUsers{u.db} }
func (u *memUoW) RecipeRepository() contract.RecipeRepository       { return memRecipes{u.db} }
func (u *memUoW) RecipeTagRepository() contract.RecipeTagRepository { return memTags{u.db} }

type match struct {
	id         *uuid.UUID
	owner      *int64
	name       string
	telegramID *int64
	categories []string
	tagNames   []string
}

func parse(specs []specification.Specification) match {
	var m match
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			m.id = &v.ID
		case specification.OwnedBy:
			m.owner = &v.UserID
		case specification.ByName:
			m.name = v.Name
		case specification.ByTelegramID:
			m.telegramID = &v.TelegramID
		case specification.ByCategories:
			m.categories = v.Categories
		case specification.WithAnyTagNames:
			m.tagNames = v.Names
		}
	}
	return m
}

func (m match) recipe(r *entity.Recipe) bool {
	if m.id != nil && r.Id != *m.id {
		return false
	}
	if m.owner != nil && r.UserId != *m.owner {
		return false
	}
	if len(m.categories) > 0 && !slices.Contains(m.categories, string(r.Category)) {
		return false
	}
	if len(m.tagNames) > 0 && !slices.ContainsFunc(r.Tags, func(t string) bool { return slices.Contains(m.tagNames, t) }) {
		return false
	}
	return true
}

type memRecipes struct{ db *memDB }

func (r memRecipes) Create(ctx context.Context, recipe *entity.Recipe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *recipe
	r.db.recipes[recipe.Id] = &c
	return nil
}

func (r memRecipes) Update(ctx context.Context, recipe *entity.Recipe) error {
	return r.Create(ctx, recipe)
}

func (r memRecipes) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.recipes, id)
	return nil
}

func (r memRecipes) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r memRecipes) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recipe, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m := parse(specs)
	var out []*entity.Recipe
	for _, rec := range r.db.recipes {
		if m.recipe(rec) {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r memRecipes) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memTags struct{ db *memDB }

func (r memTags) Create(ctx context.Context, tag *entity.RecipeTag) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *tag
	r.db.tags = append(r.db.tags, &c)
	return nil
}

func (r memTags) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecipeTag, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r memTags) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecipeTag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m := parse(specs)
	var out []*entity.RecipeTag
	for _, t := range r.db.tags {
		if m.owner != nil && t.UserId != *m.owner {
			continue
		}
		if m.name != "" && t.Name != m.name {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := *user
	r.db.users = append(r.db.users, &c)
	return nil
}

func (r memUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m := parse(specs)
	for _, u := range r.db.users {
		if m.telegramID == nil || u.TelegramId == *m.telegramID {
			return u, nil
		}
	}
	return nil, nil
}

func (r memUsers) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	u, _ := r.FindOne(ctx, specs...)
	if u == nil {
		return 0, nil
	}
	return 1, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type recordingBus struct{ payloads [][]byte }

func (b *recordingBus) Publish(ctx context.Context, payload []byte) error {
	b.payloads = append(b.payloads, payload)
	return nil
}
