package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/author/repository"
)

type authorService struct {
	repo  repository.RepositoryInterface
	users UserLookup
}

func NewAuthorService(repo repository.RepositoryInterface, users UserLookup) ServiceInterface {
	return &authorService{
		repo:  repo,
		users: users,
	}
}

func (s *authorService) ResolveForUser(ctx context.Context, userID int64) (*model.Author, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	author, created, err := s.repo.GetOrCreateByUser(ctx, model.SeedFromUser(user))
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().
			Int64("author_id", author.ID).
			Int64("user_id", userID).
			Msg("author profile created")
	}

	author.User = user.ToSummary()
	return author, nil
}
