package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/requestdata"
	"github.com/campuslink/campuslink-backend/internal/types"
)

const defaultPostPageSize = 20
const maxPostPageSize = 100

type CreatePostInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*types.Post, error)
	Get(ctx context.Context, postID uuid.UUID) (*types.Post, error)
	List(ctx context.Context, category string, limit, offset int) ([]*types.Post, error)
	ListMine(ctx context.Context) ([]*types.Post, error)
	Close(ctx context.Context, postID uuid.UUID) (*types.Post, error)
	Delete(ctx context.Context, postID uuid.UUID) error
}

type postService struct {
	db       *gorm.DB
	log      *logger.Logger
	postRepo repos.PostRepo
}

func NewPostService(db *gorm.DB, log *logger.Logger, postRepo repos.PostRepo) PostService {
	serviceLog := log.With("service", "PostService")
	return &postService{
		db:       db,
		log:      serviceLog,
		postRepo: postRepo,
	}
}

func (ps *postService) Create(ctx context.Context, input CreatePostInput) (*types.Post, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("a title is required")
	}
	if !types.ValidPostCategory(input.Category) {
		return nil, fmt.Errorf("invalid post category %q", input.Category)
	}
	post := &types.Post{
		ID:       uuid.New(),
		AuthorID: rd.UserID,
		Title:    title,
		Body:     input.Body,
		Category: input.Category,
		Status:   types.PostStatusOpen,
	}
	if _, err := ps.postRepo.Create(ctx, nil, []*types.Post{post}); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (ps *postService) Get(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	found, err := ps.postRepo.GetByIDs(ctx, nil, []uuid.UUID{postID})
	if err != nil {
		return nil, fmt.Errorf("error fetching post: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("post does not exist")
	}
	return found[0], nil
}

func (ps *postService) List(ctx context.Context, category string, limit, offset int) ([]*types.Post, error) {
	if category != "" && !types.ValidPostCategory(category) {
		return nil, fmt.Errorf("invalid post category %q", category)
	}
	if limit <= 0 {
		limit = defaultPostPageSize
	}
	if limit > maxPostPageSize {
		limit = maxPostPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return ps.postRepo.List(ctx, nil, category, limit, offset)
}

func (ps *postService) ListMine(ctx context.Context) ([]*types.Post, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return ps.postRepo.ListByAuthor(ctx, nil, rd.UserID)
}

func (ps *postService) Close(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	post, err := ps.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != rd.UserID {
		return nil, fmt.Errorf("only the author can close a post")
	}
	post.Status = types.PostStatusClosed
	if err := ps.postRepo.Save(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("failed to close post: %w", err)
	}
	return post, nil
}

func (ps *postService) Delete(ctx context.Context, postID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no authenticated user in context")
	}
	post, err := ps.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != rd.UserID && rd.Role != types.UserRoleAdmin {
		return fmt.Errorf("only the author or an admin can delete a post")
	}
	return ps.postRepo.Delete(ctx, nil, postID)
}
