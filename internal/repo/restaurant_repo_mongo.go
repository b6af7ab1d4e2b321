package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"restaurant-api/internal/domain"
)

const restaurantCollection = "restaurants"

// restaurantDoc 集合中的文档结构；字段名沿用原有集合
type restaurantDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"Name"`
	Email         string             `bson:"Email"`
	Password      string             `bson:"Password"`
	CommercialNum int64              `bson:"Commercial_Num"`
	Phone         string             `bson:"Phone"`
	Location      string             `bson:"Location"`
	Img           string             `bson:"img,omitempty"`
}

func (d *restaurantDoc) toDomain() domain.Restaurant {
	return domain.Restaurant{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.Password,
		CommercialNum: d.CommercialNum,
		Phone:         d.Phone,
		Location:      d.Location,
		Img:           d.Img,
	}
}

func docFromDomain(r *domain.Restaurant) restaurantDoc {
	return restaurantDoc{
		Name:          r.Name,
		Email:         r.Email,
		Password:      r.PasswordHash,
		CommercialNum: r.CommercialNum,
		Phone:         r.Phone,
		Location:      r.Location,
		Img:           r.Img,
	}
}

type MongoRestaurantRepo struct{ coll *mongo.Collection }

func NewMongoRestaurantRepo(db *mongo.Database) *MongoRestaurantRepo {
	return &MongoRestaurantRepo{coll: db.Collection(restaurantCollection)}
}

// EnsureIndexes 建唯一索引（Email / Commercial_Num / Phone）
func (r *MongoRestaurantRepo) EnsureIndexes(ctx context.Context) error {
	models := make([]mongo.IndexModel, 0, 3)
	for _, k := range []string{"Email", "Commercial_Num", "Phone"} {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: k, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create restaurant indexes: %w", err)
	}
	return nil
}

func (r *MongoRestaurantRepo) List(ctx context.Context) ([]domain.Restaurant, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	var docs []restaurantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	out := make([]domain.Restaurant, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *MongoRestaurantRepo) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoRestaurantRepo) FindByEmail(ctx context.Context, email string) (*domain.Restaurant, error) {
	return r.findOne(ctx, bson.D{{Key: "Email", Value: email}})
}

func (r *MongoRestaurantRepo) findOne(ctx context.Context, filter bson.D) (*domain.Restaurant, error) {
	var d restaurantDoc
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	out := d.toDomain()
	return &out, nil
}

func (r *MongoRestaurantRepo) Create(ctx context.Context, rest *domain.Restaurant) error {
	d := docFromDomain(rest)
	d.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create restaurant: %w", err)
	}
	rest.ID = d.ID.Hex()
	return nil
}

func (r *MongoRestaurantRepo) Update(ctx context.Context, id string, p domain.RestaurantPatch) (*domain.Restaurant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	// 空 $set 会被服务端拒绝
	if p.Empty() {
		return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
	}

	var d restaurantDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: setDoc(p)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrDuplicate
	case err != nil:
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	out := d.toDomain()
	return &out, nil
}

func (r *MongoRestaurantRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// setDoc patch -> $set 内容，只含出现的字段
func setDoc(p domain.RestaurantPatch) bson.D {
	var set bson.D
	add := func(k string, v any) { set = append(set, bson.E{Key: k, Value: v}) }
	if p.Name != nil {
		add("Name", *p.Name)
	}
	if p.Email != nil {
		add("Email", *p.Email)
	}
	if p.PasswordHash != nil {
		add("Password", *p.PasswordHash)
	}
	if p.CommercialNum != nil {
		add("Commercial_Num", *p.CommercialNum)
	}
	if p.Phone != nil {
		add("Phone", *p.Phone)
	}
	if p.Location != nil {
		add("Location", *p.Location)
	}
	if p.Img != nil {
		add("img", *p.Img)
	}
	return set
}
