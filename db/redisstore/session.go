// Package redisstore keeps login sessions in redis instead of the sqlite
// sessions table, so a multi-process deployment can share them. Enabled by
// setting REDIS_URL.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/univent/univent-be/model"
)

const keyPrefix = "session:"

type SessionDB struct {
	client *redis.Client
}

func Open(ctx context.Context, redisURL string) (*SessionDB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 3

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &SessionDB{client: client}, nil
}

func (sdb *SessionDB) CreateSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return sdb.client.Set(ctx, keyPrefix+session.Token, data, ttl).Err()
}

func (sdb *SessionDB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := sdb.client.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	// the token is not part of the serialized value, only of the key
	session.Token = token
	return &session, nil
}

func (sdb *SessionDB) DeleteSession(ctx context.Context, token string) error {
	return sdb.client.Del(ctx, keyPrefix+token).Err()
}

func (sdb *SessionDB) Close() error {
	return sdb.client.Close()
}
