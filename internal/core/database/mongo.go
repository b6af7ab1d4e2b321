package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// 连接串里没写库名时使用
const DefaultMongoDB = "res"

type MongoOpts struct {
	URI         string
	Database    string // 为空时取 URI 路径
	MaxPoolSize int
}

// NewMongo 连接并 ping，失败返回 error
func NewMongo(ctx context.Context, o MongoOpts) (*mongo.Client, *mongo.Database, error) {
	name, err := MongoDatabaseName(o.URI, o.Database)
	if err != nil {
		return nil, nil, err
	}

	opts := options.Client().ApplyURI(o.URI)
	if o.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(o.MaxPoolSize))
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(name), nil
}

// MongoDatabaseName 显式配置 > URI 路径 > DefaultMongoDB
func MongoDatabaseName(uri, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("mongo uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return DefaultMongoDB, nil
}
