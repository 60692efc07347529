package service

import (
	"context"
	"errors"
	"slices"

	"recipebot/internal/entity"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/specification"
	"recipebot/internal/repository/unitofwork"
	"recipebot/pkg/events"

	"github.com/google/uuid"
)

type IUserService interface {
	IsRegistered(ctx context.Context, telegramID int64) (bool, error)
	// Register is idempotent. It fails with ErrNotTester when a tester list
	// is configured and the user is not on it.
	Register(ctx context.Context, user *entity.User) (*entity.User, error)
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	testerIDs      []int64
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, testerIDs []int64, eventPublisher EventPublisher, log logger.ILogger) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		testerIDs:      testerIDs,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *userService) IsRegistered(ctx context.Context, telegramID int64) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.UserRepository().Count(ctx, specification.ByTelegramID{TelegramID: telegramID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *userService) Register(ctx context.Context, user *entity.User) (*entity.User, error) {
	if len(s.testerIDs) > 0 && !slices.Contains(s.testerIDs, user.TelegramId) {
		return nil, ErrNotTester
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()
	existing, err := repo.FindOne(ctx, specification.ByTelegramID{TelegramID: user.TelegramId})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrAlreadyExists) {
			return repo.FindOne(ctx, specification.ByTelegramID{TelegramID: user.TelegramId})
		}
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.UserRegistered, map[string]interface{}{
			"telegram_id": user.TelegramId,
			"username":    user.Username,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("UserService", "Failed to publish USER_REGISTERED event", map[string]interface{}{"error": err.Error()})
		}
	}
	return user, nil
}
