package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

// contactDoc — представление обращения в коллекции.
// Наружу ID конвертируется в hex-строку ObjectID.
type contactDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    uuid.UUID          `bson:"user_id"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	Email     string             `bson:"email"`
	Content   string             `bson:"content"`
	IsRead    bool               `bson:"is_read"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *contactDoc) toModel() *models.Contact {
	return &models.Contact{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Content:   d.Content,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// SaveContact создаёт обращение.
func (m *Mongo) SaveContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	const op = "storage/mongo/SaveContact"

	// MongoDB DateTime хранит миллисекунды.
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := contactDoc{
		UserID:    contact.UserID,
		Name:      contact.Name,
		Phone:     contact.Phone,
		Email:     contact.Email,
		Content:   contact.Content,
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := m.contacts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	return doc.toModel(), nil
}

// ContactByID возвращает обращение по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) ContactByID(ctx context.Context, id string) (*models.Contact, error) {
	const op = "storage/mongo/ContactByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc contactDoc
	if err := m.contacts.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// ListContacts возвращает страницу обращений; новые — первыми.
func (m *Mongo) ListContacts(ctx context.Context, opts models.ListOptions, filter models.ContactFilter) (*models.Page[models.Contact], error) {
	const op = "storage/mongo/ListContacts"

	page := opts.Page
	if page <= 0 {
		page = 1
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = m.cfg.Limits.Default
	}
	if limit > m.cfg.Limits.Max {
		limit = m.cfg.Limits.Max
	}

	cond := bson.D{}
	if filter.IsRead != nil {
		cond = append(cond, bson.E{Key: "is_read", Value: *filter.IsRead})
	}

	total, err := m.contacts.CountDocuments(ctx, cond)
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cur, err := m.contacts.Find(ctx, cond, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Contact, 0, limit)
	for cur.Next(ctx) {
		var doc contactDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, *doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return &models.Page[models.Contact]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: models.TotalPagesFor(total, limit),
	}, nil
}

// UpdateIsReadStatus выставляет статус прочтения и возвращает актуальную запись.
func (m *Mongo) UpdateIsReadStatus(ctx context.Context, id string, isRead bool) (*models.Contact, error) {
	const op = "storage/mongo/UpdateIsReadStatus"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_read", Value: isRead},
		{Key: "updated_at", Value: time.Now().UTC().Truncate(time.Millisecond)},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc contactDoc
	if err := m.contacts.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// Интерфейсная проверка.
var _ storage.ContactStorage = (*Mongo)(nil)
