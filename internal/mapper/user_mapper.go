package mapper

import (
	"recipebot/internal/entity"
	"recipebot/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:         u.Id,
		TelegramId: u.TelegramId,
		Username:   u.Username,
		FirstName:  u.FirstName,
		CreatedAt:  u.CreatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:         u.Id,
		TelegramId: u.TelegramId,
		Username:   u.Username,
		FirstName:  u.FirstName,
		CreatedAt:  u.CreatedAt,
	}
}
