package homework

import (
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/mon"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongo 错误码
const (
	mongoCodeUnauthorized         = 13
	mongoCodeAuthenticationFailed = 18
	mongoCodeNamespaceExists      = 48
)

type mongoHomework struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	StudentName      string             `bson:"student_name"`
	OriginalFileName string             `bson:"original_file_name"`
	FileKind         FileKind           `bson:"file_kind"`
	ContentLocation  string             `bson:"content_location"`
	UploadedAtMillis int64              `bson:"uploaded_at_millis"`
	Annotation       *Annotation        `bson:"annotation,omitempty"`
	IsAnnotating     bool               `bson:"is_annotating"`
}

func (d *mongoHomework) toHomework() *Homework {
	return &Homework{
		ID:               d.ID.Hex(),
		StudentName:      d.StudentName,
		OriginalFileName: d.OriginalFileName,
		FileKind:         d.FileKind,
		ContentLocation:  d.ContentLocation,
		UploadedAtMillis: d.UploadedAtMillis,
		Annotation:       d.Annotation,
		IsAnnotating:     d.IsAnnotating,
	}
}

type MongoMapper struct {
	conn *mon.Model
}

func NewMongoMapper(url, db string) (*MongoMapper, error) {
	log.Info("NewHomeworkMongoMapper db: %s, collection: %s", db, consts.CollectionHomework)
	conn, err := mon.NewModel(url, db, consts.CollectionHomework)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", consts.ErrStoreUnavailable, err)
	}
	return &MongoMapper{
		conn: conn,
	}, nil
}

func (m *MongoMapper) ListAll(ctx context.Context) ([]*Homework, error) {
	var docs []*mongoHomework
	err := m.conn.Find(ctx, &docs, bson.M{},
		options.Find().SetSort(bson.D{{Key: consts.UploadedAtMillis, Value: -1}}))
	if err != nil {
		return nil, classifyMongoError(err)
	}
	list := make([]*Homework, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toHomework())
	}
	return list, nil
}

func (m *MongoMapper) Insert(ctx context.Context, h *Homework) (string, error) {
	if h.ID != "" {
		return "", fmt.Errorf("%w: id already assigned", consts.ErrInvalidParams)
	}
	doc := &mongoHomework{
		ID:               primitive.NewObjectID(),
		StudentName:      h.StudentName,
		OriginalFileName: h.OriginalFileName,
		FileKind:         h.FileKind,
		ContentLocation:  h.ContentLocation,
		UploadedAtMillis: h.UploadedAtMillis,
		Annotation:       h.Annotation,
		IsAnnotating:     h.IsAnnotating,
	}
	if _, err := m.conn.InsertOne(ctx, doc); err != nil {
		return "", classifyMongoError(err)
	}
	h.ID = doc.ID.Hex()
	return h.ID, nil
}

func (m *MongoMapper) UpdateAnnotation(ctx context.Context, id string, patch AnnotationPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %w", consts.ErrNotFound, consts.ErrInvalidObjectId)
	}
	res, err := m.conn.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		consts.Annotation:   patch.Annotation,
		consts.IsAnnotating: patch.IsAnnotating,
	}})
	if err != nil {
		return classifyMongoError(err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: homework %s", consts.ErrNotFound, id)
	}
	return nil
}

func (m *MongoMapper) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %w", consts.ErrNotFound, consts.ErrInvalidObjectId)
	}
	n, err := m.conn.DeleteOne(ctx, bson.M{consts.ID: oid})
	if err != nil {
		return classifyMongoError(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: homework %s", consts.ErrNotFound, id)
	}
	return nil
}

func (m *MongoMapper) TestReachability(ctx context.Context) error {
	var doc mongoHomework
	err := m.conn.FindOne(ctx, &doc, bson.M{})
	if err != nil && !errors.Is(err, mon.ErrNotFound) {
		return classifyMongoError(err)
	}
	return ensureCollection(ctx, m.conn.Database(), consts.CollectionHomework)
}

type collectionCreator interface {
	ListCollectionNames(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]string, error)
	CreateCollection(ctx context.Context, name string, opts ...*options.CreateCollectionOptions) error
}

// ensureCollection 新库没有集合时直接创建，与空集合同等对待
func ensureCollection(ctx context.Context, db collectionCreator, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return classifyMongoError(err)
	}
	if len(names) > 0 {
		return nil
	}
	log.CtxInfo(ctx, "collection %s not found, creating", name)
	if err := db.CreateCollection(ctx, name); err != nil {
		var se mongo.ServerError
		if errors.As(err, &se) && se.HasErrorCode(mongoCodeNamespaceExists) {
			return nil
		}
		return classifyMongoError(err)
	}
	return nil
}

// Close mon 按 uri 复用客户端，这里不主动断开
func (m *MongoMapper) Close(_ context.Context) error {
	return nil
}

func classifyMongoError(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) &&
		(se.HasErrorCode(mongoCodeUnauthorized) || se.HasErrorCode(mongoCodeAuthenticationFailed)) {
		return fmt.Errorf("%w: %w", consts.ErrPermissionDenied, err)
	}
	if strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%w: %w", consts.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %w", consts.ErrStoreUnavailable, err)
}
