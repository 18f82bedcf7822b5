package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

// Интеграционные тесты репозитория публикаций (post.go); общий харнес
// с контейнером PostgreSQL живёт в user_test.go.

// mustSavePost — вставляет публикацию автора с заданными slug/рубрикой/статусом.
func mustSavePost(t *testing.T, st *Storage, author *models.User, slug string, category models.PostCategory, approved bool) *models.Post {
	t.Helper()

	now := time.Now().UTC()
	p := &models.Post{
		ID:        uuid.New(),
		UserID:    author.ID,
		Title:     "Title " + slug,
		Content:   "content",
		Author:    author.Name,
		Category:  category,
		Slug:      slug,
		Approved:  approved,
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, st.SavePost(context.Background(), p))
	return p
}

// TestIntegration_SavePost_And_Lookups — happy-path сохранения и поиска по slug/ID,
// плюс конфликт уникальности slug.
func TestIntegration_SavePost_And_Lookups(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := mustSaveUser(t, st, "author")
	p := mustSavePost(t, st, author, "first-post", models.CategoryNews, true)

	bySlug, err := st.PostBySlug(context.Background(), "first-post")
	require.NoError(t, err)
	require.Equal(t, p.ID, bySlug.ID)
	require.Equal(t, author.Name, bySlug.Author)

	byID, err := st.PostByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, "first-post", byID.Slug)

	dup := *p
	dup.ID = uuid.New()
	require.ErrorIs(t, st.SavePost(context.Background(), &dup), storage.ErrAlreadyExists)

	_, err = st.PostBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_ListPosts_Filters — фильтры листинга: рубрика, статус
// модерации, автор и подстрока заголовка.
func TestIntegration_ListPosts_Filters(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := mustSaveUser(t, st, "writer")
	other := mustSaveUser(t, st, "editor")

	mustSavePost(t, st, author, "go-news", models.CategoryNews, true)
	mustSavePost(t, st, author, "go-tutorial", models.CategoryTutorial, false)
	mustSavePost(t, st, other, "rust-news", models.CategoryNews, true)

	ctx := context.Background()
	opts := models.ListOptions{Page: 1, Limit: 10}

	category := models.CategoryNews
	page, err := st.ListPosts(ctx, opts, models.PostFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	approved := true
	page, err = st.ListPosts(ctx, opts, models.PostFilter{Approved: &approved})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	page, err = st.ListPosts(ctx, opts, models.PostFilter{UserID: author.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	page, err = st.ListPosts(ctx, opts, models.PostFilter{Title: "tutorial"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "go-tutorial", page.Items[0].Slug)

	page, err = st.ListPosts(ctx, opts, models.PostFilter{Author: author.Name})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
}

// TestIntegration_ListPosts_Pagination — стабильный порядок и постраничность.
func TestIntegration_ListPosts_Pagination(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := mustSaveUser(t, st, "paginator")
	for i := 0; i < 5; i++ {
		mustSavePost(t, st, author, fmt.Sprintf("post-%d", i), models.CategoryNews, true)
	}

	page, err := st.ListPosts(context.Background(), models.ListOptions{Page: 2, Limit: 2}, models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 5, page.Total)
	require.EqualValues(t, 3, page.TotalPages)
	require.EqualValues(t, 2, page.Page)
}

// TestIntegration_UpdatePost — обновление полей и конфликт slug.
func TestIntegration_UpdatePost(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := mustSaveUser(t, st, "updater")
	p := mustSavePost(t, st, author, "old-slug", models.CategoryNews, true)
	mustSavePost(t, st, author, "occupied", models.CategoryNews, true)

	p.Title = "Updated"
	p.Slug = "new-slug"
	p.Category = models.CategoryService

	updated, err := st.UpdatePost(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, "Updated", updated.Title)
	require.Equal(t, "new-slug", updated.Slug)
	require.Equal(t, models.CategoryService, updated.Category)

	p.Slug = "occupied"
	_, err = st.UpdatePost(context.Background(), p)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	missing := *p
	missing.ID = uuid.New()
	missing.Slug = "free-slug"
	_, err = st.UpdatePost(context.Background(), &missing)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_DeletePost_And_Approve — удаление и смена статуса модерации.
func TestIntegration_DeletePost_And_Approve(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	author := mustSaveUser(t, st, "moderated")
	p := mustSavePost(t, st, author, "pending", models.CategoryNews, false)

	approvedPost, err := st.UpdateApproveStatus(context.Background(), p.ID, true)
	require.NoError(t, err)
	require.True(t, approvedPost.Approved)

	require.NoError(t, st.DeletePost(context.Background(), p.ID))
	require.ErrorIs(t, st.DeletePost(context.Background(), p.ID), storage.ErrNotFound)

	_, err = st.UpdateApproveStatus(context.Background(), p.ID, false)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
