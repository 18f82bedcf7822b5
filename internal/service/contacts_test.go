package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
	"github.com/pribylovaa/go-content-portal/mocks"
)

func newSvcWithContacts(t *testing.T) (*Service, *mocks.MockContactStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	contacts := mocks.NewMockContactStorage(ctrl)
	svc := New(mocks.NewMockStorage(ctrl), contacts, nil, testCfg())
	return svc, contacts, ctrl
}

func TestCreateContact_OK_Anonymous(t *testing.T) {
	t.Parallel()

	svc, contacts, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	contacts.EXPECT().SaveContact(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Contact) (*models.Contact, error) {
			require.Equal(t, uuid.Nil, c.UserID)
			require.Equal(t, "Иван", c.Name)
			require.Equal(t, "ivan@example.com", c.Email)
			out := *c
			out.ID = "6894a1f2c0ffee0001020304"
			return &out, nil
		})

	contact, err := svc.CreateContact(context.Background(), CreateContactInput{
		Name:    "  Иван  ",
		Email:   "Ivan@Example.com",
		Content: "Вопрос по продукту",
	})
	require.NoError(t, err)
	require.NotEmpty(t, contact.ID)
}

func TestCreateContact_EmptyFields(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	_, err := svc.CreateContact(context.Background(), CreateContactInput{Name: "", Content: "x"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateContact(context.Background(), CreateContactInput{Name: "x", Content: "  "})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateContact_BadEmail(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	_, err := svc.CreateContact(context.Background(), CreateContactInput{
		Name:    "Иван",
		Email:   "not-an-email",
		Content: "x",
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestContactByID_AdminOnly(t *testing.T) {
	t.Parallel()

	svc, contacts, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	_, err := svc.ContactByID(context.Background(), testAuthor(), "id")
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ContactByID(context.Background(), nil, "id")
	require.ErrorIs(t, err, ErrPermissionDenied)

	contacts.EXPECT().ContactByID(gomock.Any(), "id").
		Return(&models.Contact{ID: "id"}, nil)

	contact, err := svc.ContactByID(context.Background(), testAdmin(), "id")
	require.NoError(t, err)
	require.Equal(t, "id", contact.ID)
}

func TestContactByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, contacts, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	contacts.EXPECT().ContactByID(gomock.Any(), "missing").
		Return(nil, storage.ErrNotFound)

	_, err := svc.ContactByID(context.Background(), testAdmin(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListContacts_NormalizesOptions(t *testing.T) {
	t.Parallel()

	svc, contacts, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	unread := false
	contacts.EXPECT().ListContacts(gomock.Any(), models.ListOptions{Page: 1, Limit: 10}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.ListOptions, filter models.ContactFilter) (*models.Page[models.Contact], error) {
			require.NotNil(t, filter.IsRead)
			require.False(t, *filter.IsRead)
			return &models.Page[models.Contact]{}, nil
		})

	_, err := svc.ListContacts(context.Background(), testAdmin(), models.ListOptions{}, models.ContactFilter{IsRead: &unread})
	require.NoError(t, err)
}

func TestMarkContactRead_OK(t *testing.T) {
	t.Parallel()

	svc, contacts, ctrl := newSvcWithContacts(t)
	defer ctrl.Finish()

	contacts.EXPECT().UpdateIsReadStatus(gomock.Any(), "id", true).
		Return(&models.Contact{ID: "id", IsRead: true}, nil)

	contact, err := svc.MarkContactRead(context.Background(), testAdmin(), "id", true)
	require.NoError(t, err)
	require.True(t, contact.IsRead)
}
