package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

func testAuthor() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Name:     "Пётр Петров",
		Username: "petrov",
		Role:     models.RoleUser,
		IsActive: true,
	}
}

func testAdmin() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Name:     "Админ",
		Username: "admin",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
}

func TestCreatePost_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	author := testAuthor()

	st.EXPECT().SavePost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, post *models.Post) error {
			require.Equal(t, author.ID, post.UserID)
			require.Equal(t, author.Name, post.Author)
			require.False(t, post.Approved)
			require.Equal(t, "go-concurrency-patterns", post.Slug)
			return nil
		})

	post, err := svc.CreatePost(context.Background(), author, CreatePostInput{
		Title:    "Go Concurrency Patterns!",
		Content:  "...",
		Category: models.CategoryTutorial,
	})
	require.NoError(t, err)
	require.Equal(t, "go-concurrency-patterns", post.Slug)
}

func TestCreatePost_SlugConflict_AppendsSuffix(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	first := st.EXPECT().SavePost(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)
	st.EXPECT().SavePost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, post *models.Post) error {
			require.NotEqual(t, "title", post.Slug)
			require.Contains(t, post.Slug, "title-")
			return nil
		}).After(first)

	_, err := svc.CreatePost(context.Background(), testAuthor(), CreatePostInput{
		Title:    "Title",
		Content:  "...",
		Category: models.CategoryNews,
	})
	require.NoError(t, err)
}

func TestCreatePost_EmptyFields(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.CreatePost(context.Background(), testAuthor(), CreatePostInput{Title: "  ", Content: "x"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreatePost(context.Background(), testAuthor(), CreatePostInput{Title: "x", Content: ""})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreatePost(context.Background(), nil, CreatePostInput{Title: "x", Content: "x"})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPostBySlug_UnapprovedHiddenFromStrangers(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	author := testAuthor()
	post := &models.Post{
		ID:       uuid.New(),
		UserID:   author.ID,
		Slug:     "draft",
		Approved: false,
	}

	st.EXPECT().PostBySlug(gomock.Any(), "draft").Return(post, nil).Times(4)

	// Аноним и посторонний пользователь не видят неодобренную публикацию.
	_, err := svc.PostBySlug(context.Background(), nil, "draft")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.PostBySlug(context.Background(), testAuthor(), "draft")
	require.ErrorIs(t, err, ErrNotFound)

	// Автор и админ — видят.
	got, err := svc.PostBySlug(context.Background(), author, "draft")
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)

	_, err = svc.PostBySlug(context.Background(), testAdmin(), "draft")
	require.NoError(t, err)
}

func TestListPosts_NonAdminForcedToApproved(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ListPosts(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts models.ListOptions, filter models.PostFilter) (*models.Page[models.Post], error) {
			require.NotNil(t, filter.Approved)
			require.True(t, *filter.Approved)
			require.Equal(t, int32(1), opts.Page)
			require.Equal(t, int32(10), opts.Limit)
			return &models.Page[models.Post]{Page: opts.Page, Limit: opts.Limit}, nil
		})

	_, err := svc.ListPosts(context.Background(), testAuthor(), models.ListOptions{}, models.PostFilter{})
	require.NoError(t, err)
}

func TestListPosts_OwnPostsAnyStatus(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	author := testAuthor()

	st.EXPECT().ListPosts(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.ListOptions, filter models.PostFilter) (*models.Page[models.Post], error) {
			require.Nil(t, filter.Approved)
			require.Equal(t, author.ID, filter.UserID)
			return &models.Page[models.Post]{}, nil
		})

	_, err := svc.ListPosts(context.Background(), author, models.ListOptions{}, models.PostFilter{UserID: author.ID})
	require.NoError(t, err)
}

func TestListPosts_AdminSeesEverything(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().ListPosts(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts models.ListOptions, filter models.PostFilter) (*models.Page[models.Post], error) {
			require.Nil(t, filter.Approved)
			// Лимит обрезан конфигом.
			require.Equal(t, int32(100), opts.Limit)
			return &models.Page[models.Post]{}, nil
		})

	_, err := svc.ListPosts(context.Background(), testAdmin(), models.ListOptions{Limit: 1000}, models.PostFilter{})
	require.NoError(t, err)
}

func TestUpdatePost_OwnerResetsApproval(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	author := testAuthor()
	post := &models.Post{ID: uuid.New(), UserID: author.ID, Title: "Old", Slug: "old", Approved: true}

	newTitle := "New Title"

	st.EXPECT().PostByID(gomock.Any(), post.ID).Return(post, nil)
	st.EXPECT().UpdatePost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Post) (*models.Post, error) {
			require.Equal(t, "New Title", p.Title)
			require.Equal(t, "new-title", p.Slug)
			out := *p
			return &out, nil
		})
	st.EXPECT().UpdateApproveStatus(gomock.Any(), post.ID, false).
		Return(&models.Post{ID: post.ID, Approved: false}, nil)

	updated, err := svc.UpdatePost(context.Background(), author, post.ID, UpdatePostInput{Title: &newTitle})
	require.NoError(t, err)
	require.False(t, updated.Approved)
}

func TestUpdatePost_StrangerDenied(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	post := &models.Post{ID: uuid.New(), UserID: uuid.New()}
	st.EXPECT().PostByID(gomock.Any(), post.ID).Return(post, nil)

	newTitle := "Hacked"
	_, err := svc.UpdatePost(context.Background(), testAuthor(), post.ID, UpdatePostInput{Title: &newTitle})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeletePost_AdminCanDeleteAny(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	post := &models.Post{ID: uuid.New(), UserID: uuid.New()}
	st.EXPECT().PostByID(gomock.Any(), post.ID).Return(post, nil)
	st.EXPECT().DeletePost(gomock.Any(), post.ID).Return(nil)

	require.NoError(t, svc.DeletePost(context.Background(), testAdmin(), post.ID))
}

func TestApprovePost_NonAdminDenied(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.ApprovePost(context.Background(), testAuthor(), uuid.New(), true)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ApprovePost(context.Background(), nil, uuid.New(), true)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestApprovePost_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().UpdateApproveStatus(gomock.Any(), id, true).
		Return(&models.Post{ID: id, Approved: true}, nil)

	post, err := svc.ApprovePost(context.Background(), testAdmin(), id, true)
	require.NoError(t, err)
	require.True(t, post.Approved)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello-world", slugify("Hello, World!"))
	require.Equal(t, "go-1-24-release", slugify("Go 1.24 Release"))
	require.Equal(t, "привет-мир", slugify("Привет, мир"))
	require.NotEmpty(t, slugify("!!!"))
}
