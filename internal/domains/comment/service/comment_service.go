package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/repository"
	postmodel "blog-backend/internal/domains/post/model"
)

var errInactivePost = validation.NewError("validation_inactive_post", "Comments can only be created on active posts.")

type commentService struct {
	repo  repository.RepositoryInterface
	posts PostLookup
	users UserLookup
}

func NewCommentService(repo repository.RepositoryInterface, posts PostLookup, users UserLookup) ServiceInterface {
	return &commentService{
		repo:  repo,
		posts: posts,
		users: users,
	}
}

func postDoesNotExist(id int64) error {
	return validation.Errors{
		"post": validation.NewError("validation_does_not_exist",
			fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, id)),
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID *int64, req model.CreateCommentRequest) (*model.Created, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	postID := *req.Post

	// 1. The target must exist and be active
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, postmodel.ErrPostNotFound) {
			return nil, postDoesNotExist(postID)
		}
		return nil, err
	}
	if !post.Active {
		return nil, validation.Errors{"post": errInactivePost}
	}

	c := &model.Comment{
		PostID:  postID,
		Content: req.Content,
	}

	// 2. Attribute to the caller when there is one
	if userID != nil {
		user, err := s.users.GetUser(ctx, *userID)
		if err != nil {
			return nil, err
		}
		c.UserID = &user.ID
		c.User = user.ToSummary()
	}

	// 3. Persist
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, model.ErrPostGone) {
			return nil, postDoesNotExist(postID)
		}
		return nil, err
	}

	log.Info().
		Int64("comment_id", c.ID).
		Int64("post_id", postID).
		Bool("anonymous", c.UserID == nil).
		Msg("comment created")

	return c.ToCreated(), nil
}

func (s *commentService) ListForPost(ctx context.Context, postID int64) ([]*model.View, error) {
	comments, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	views := make([]*model.View, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.ToView())
	}
	return views, nil
}
