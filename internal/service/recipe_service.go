package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"recipebot/internal/dto"
	"recipebot/internal/entity"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/specification"
	"recipebot/internal/repository/unitofwork"
	"recipebot/pkg/events"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// EventPublisher forwards domain events outside the process (NATS).
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IRecipeService interface {
	Add(ctx context.Context, recipe *entity.Recipe) (*entity.Recipe, error)
	Get(ctx context.Context, owner int64, id uuid.UUID) (*entity.Recipe, error)
	Update(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, owner int64, id uuid.UUID) error
	ListByOwner(ctx context.Context, owner int64) ([]*entity.Recipe, error)
	ListFiltered(ctx context.Context, filter entity.RecipeFilter) ([]*entity.Recipe, error)
	OwnerTags(ctx context.Context, owner int64) ([]string, error)
	GetOrCreateTag(ctx context.Context, owner int64, name string) (*entity.RecipeTag, error)
}

type recipeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   EventPublisher
	validate         *validator.Validate
	log              logger.ILogger
}

// NewRecipeService accepts a nil eventPublisher when NATS is not configured.
func NewRecipeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IRecipeService {
	return &recipeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		validate:         validator.New(),
		log:              log,
	}
}

func (s *recipeService) Add(ctx context.Context, recipe *entity.Recipe) (*entity.Recipe, error) {
	if err := s.validate.Struct(recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	if recipe.Id == uuid.Nil {
		recipe.Id = uuid.New()
	}
	if recipe.Source == "" {
		recipe.Source = entity.SourceManual
	}
	recipe.Tags = normalizeTags(recipe.Tags)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	for _, name := range recipe.Tags {
		if _, err := s.ensureTag(ctx, uow, recipe.UserId, name); err != nil {
			return nil, err
		}
	}
	if err := uow.RecipeRepository().Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.announce(ctx, recipe)
	return recipe, nil
}

// announce is best effort; a created recipe is never rolled back for it.
func (s *recipeService) announce(ctx context.Context, recipe *entity.Recipe) {
	msg := dto.RecipeCreatedMessage{
		RecipeId: recipe.Id,
		UserId:   recipe.UserId,
		Title:    recipe.Title,
		Source:   string(recipe.Source),
	}
	if s.publisherService != nil {
		payload, _ := json.Marshal(msg)
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.log.Warn("RecipeService", "Failed to publish recipe created message", map[string]interface{}{"error": err.Error()})
		}
	}
	if s.eventPublisher != nil {
		evt := events.New(events.RecipeCreated, map[string]interface{}{
			"recipe_id": recipe.Id.String(),
			"user_id":   recipe.UserId,
			"title":     recipe.Title,
			"source":    string(recipe.Source),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("RecipeService", "Failed to publish RECIPE_CREATED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *recipeService) Get(ctx context.Context, owner int64, id uuid.UUID) (*entity.Recipe, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	recipe, err := uow.RecipeRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: owner},
	)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, contract.ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *recipeService) Update(ctx context.Context, recipe *entity.Recipe) error {
	if err := s.validate.Struct(recipe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	recipe.Tags = normalizeTags(recipe.Tags)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	existing, err := uow.RecipeRepository().FindOne(ctx,
		specification.ByID{ID: recipe.Id},
		specification.OwnedBy{UserID: recipe.UserId},
	)
	if err != nil {
		return err
	}
	if existing == nil {
		return contract.ErrRecipeNotFound
	}
	recipe.CreatedAt = existing.CreatedAt

	for _, name := range recipe.Tags {
		if _, err := s.ensureTag(ctx, uow, recipe.UserId, name); err != nil {
			return err
		}
	}
	if err := uow.RecipeRepository().Update(ctx, recipe); err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.emit(ctx, events.RecipeUpdated, recipe.UserId, recipe.Id)
	return nil
}

// Delete requires both the id and the owner, so users cannot remove each other's recipes.
func (s *recipeService) Delete(ctx context.Context, owner int64, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	existing, err := uow.RecipeRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: owner},
	)
	if err != nil {
		return err
	}
	if existing == nil {
		return contract.ErrRecipeNotFound
	}
	if err := uow.RecipeRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	s.emit(ctx, events.RecipeDeleted, owner, id)
	return nil
}

func (s *recipeService) emit(ctx context.Context, eventType string, owner int64, id uuid.UUID) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{
		"recipe_id": id.String(),
		"user_id":   owner,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("RecipeService", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *recipeService) ListByOwner(ctx context.Context, owner int64) ([]*entity.Recipe, error) {
	return s.ListFiltered(ctx, entity.RecipeFilter{UserId: owner})
}

func (s *recipeService) ListFiltered(ctx context.Context, filter entity.RecipeFilter) ([]*entity.Recipe, error) {
	categories := make([]string, len(filter.Categories))
	for i, c := range filter.Categories {
		categories[i] = string(c)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RecipeRepository().FindAll(ctx,
		specification.OwnedBy{UserID: filter.UserId},
		specification.ByCategories{Categories: categories},
		specification.WithAnyTagNames{UserID: filter.UserId, Names: filter.TagNames},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (s *recipeService) OwnerTags(ctx context.Context, owner int64) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tags, err := uow.RecipeTagRepository().FindAll(ctx,
		specification.OwnedBy{UserID: owner},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names, nil
}

func (s *recipeService) GetOrCreateTag(ctx context.Context, owner int64, name string) (*entity.RecipeTag, error) {
	return s.ensureTag(ctx, s.uowFactory.NewUnitOfWork(ctx), owner, name)
}

func (s *recipeService) ensureTag(ctx context.Context, uow unitofwork.UnitOfWork, owner int64, name string) (*entity.RecipeTag, error) {
	name = NormalizeTag(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty tag name", ErrInvalidRecipe)
	}

	repo := uow.RecipeTagRepository()
	tag, err := repo.FindOne(ctx, specification.OwnedBy{UserID: owner}, specification.ByName{Name: name})
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}

	tag = &entity.RecipeTag{Id: uuid.New(), Name: name, UserId: owner}
	if err := repo.Create(ctx, tag); err != nil {
		if errors.Is(err, contract.ErrAlreadyExists) {
			return repo.FindOne(ctx, specification.OwnedBy{UserID: owner}, specification.ByName{Name: name})
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func normalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = NormalizeTag(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// NormalizeTag lowercases and strips a leading '#'.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}
