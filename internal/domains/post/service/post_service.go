package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
)

type postService struct {
	repo     repository.RepositoryInterface
	authors  AuthorResolver
	comments CommentLister
	pageSize int
}

func NewPostService(
	repo repository.RepositoryInterface,
	authors AuthorResolver,
	comments CommentLister,
	pageSize int,
) ServiceInterface {
	return &postService{
		repo:     repo,
		authors:  authors,
		comments: comments,
		pageSize: pageSize,
	}
}

// =====================================================
// READ
// =====================================================

func (s *postService) ListPosts(ctx context.Context, q model.ListPostsQuery) (*model.PostList, error) {
	f, err := q.Filter()
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	// An empty result still has page 1; anything past the last page is an error.
	lastPage := 1
	if total > 0 {
		lastPage = int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	}
	if f.Page > lastPage {
		return nil, model.ErrInvalidPage
	}

	items := make([]*model.ListItem, 0, s.pageSize)
	if total > 0 {
		posts, err := s.repo.List(ctx, f, s.pageSize, (f.Page-1)*s.pageSize)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			items = append(items, p.ToListItem())
		}
	}

	return &model.PostList{
		Items: items,
		Page:  f.Page,
		Limit: s.pageSize,
		Total: total,
	}, nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*model.Detail, error) {
	p, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListForPost(ctx, id)
	if err != nil {
		return nil, err
	}

	return p.ToDetail(comments), nil
}

// =====================================================
// WRITE
// =====================================================

func (s *postService) CreatePost(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Created, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	author, err := s.authors.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: author.ID,
		Status:   req.Status,
		Active:   true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.AuthorName = author.Name

	log.Info().
		Int64("post_id", p.ID).
		Int64("author_id", author.ID).
		Str("status", string(p.Status)).
		Msg("post created")

	return p.ToCreated(), nil
}

func (s *postService) UpdatePost(ctx context.Context, userID, id int64, req model.UpdatePostRequest, partial bool) (*model.Updated, error) {
	req.Normalize()
	if err := req.Validate(partial); err != nil {
		// Someone else's post is not found, however malformed the body.
		owned, ownErr := s.repo.IsOwned(ctx, id, userID)
		if ownErr != nil {
			return nil, ownErr
		}
		if !owned {
			return nil, model.ErrPostNotFound
		}
		return nil, err
	}

	p, err := s.repo.UpdateOwned(ctx, id, userID, req.ToPatch())
	if err != nil {
		return nil, err
	}
	return p.ToUpdated(), nil
}

func (s *postService) DeletePost(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteOwned(ctx, id, userID); err != nil {
		return err
	}
	log.Info().Int64("post_id", id).Int64("user_id", userID).Msg("post deleted")
	return nil
}
