package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-api/internal/domain"
)

func TestMongoRepo_MalformedIDSkipsStore(t *testing.T) {
	// coll 为 nil：若访问了存储会 panic
	r := &MongoRestaurantRepo{}
	ctx := context.Background()

	_, err := r.FindByID(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Update(ctx, "zzzzzzzzzzzzzzzzzzzzzzzz", domain.RestaurantPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, ""), domain.ErrNotFound)
}

func TestSetDoc(t *testing.T) {
	num := int64(9)
	set := setDoc(domain.RestaurantPatch{
		Phone:         strPtr("05511111111"),
		PasswordHash:  strPtr("$2a$hash"),
		CommercialNum: &num,
	})

	assert.Equal(t, bson.D{
		{Key: "Password", Value: "$2a$hash"},
		{Key: "Commercial_Num", Value: int64(9)},
		{Key: "Phone", Value: "05511111111"},
	}, set)
	assert.Empty(t, setDoc(domain.RestaurantPatch{}))
}

func TestRestaurantDoc_RoundTrip(t *testing.T) {
	in := sample(0)
	in.Img = "logo.png"
	d := docFromDomain(&in)
	d.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(d)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, in.Email, m["Email"])
	assert.Equal(t, in.PasswordHash, m["Password"])
	assert.Equal(t, "logo.png", m["img"])

	got := d.toDomain()
	in.ID = d.ID.Hex()
	assert.Equal(t, in, got)
}
