package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoDatabase 未配置库名时使用的数据库。
const DefaultMongoDatabase = "portfolio"

// ErrMongoURIMissing 表示没有提供 MongoDB 连接串。
var ErrMongoURIMissing = errors.New("mongodb uri is required")

// MongoClientOptions 返回连接 MongoDB 时使用的客户端参数。
func MongoClientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(45 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(5)
}

// NewMongoConnector 返回一个懒加载的 MongoDB 客户端句柄。
func NewMongoConnector(uri string) *Connector[*mongo.Client] {
	uri = strings.TrimSpace(uri)
	return NewConnector(Dialer[*mongo.Client]{
		Name: "mongodb",
		Open: func(ctx context.Context) (*mongo.Client, error) {
			if uri == "" {
				return nil, ErrMongoURIMissing
			}
			client, err := mongo.Connect(ctx, MongoClientOptions(uri))
			if err != nil {
				return nil, err
			}
			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, err
			}
			return client, nil
		},
		Ping: func(ctx context.Context, client *mongo.Client) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: func(ctx context.Context, client *mongo.Client) error {
			return client.Disconnect(ctx)
		},
	})
}
