package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix     = "jobalert:session:"
	digestSubscribersKey = "jobalert:digest_subscribers"
)

// RedisSessions stores each session as a JSON value and keeps the ids of
// active digest subscribers in a set.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisSessionsRepository(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (repo *RedisSessions) Load(ctx context.Context, recipientID int64) (*entities.Session, error) {

	data, err := repo.client.Get(ctx, sessionKey(recipientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entities.Session
	if err = json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", recipientID, err)
	}
	return &session, nil
}

func (repo *RedisSessions) Save(ctx context.Context, session entities.Session) error {

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	member := strconv.FormatInt(session.RecipientID, 10)
	_, err = repo.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.RecipientID), data, 0)
		if session.DigestActive() {
			pipe.SAdd(ctx, digestSubscribersKey, member)
		} else {
			pipe.SRem(ctx, digestSubscribersKey, member)
		}
		return nil
	})
	return err
}

func (repo *RedisSessions) DigestSubscribers(ctx context.Context) ([]int64, error) {

	members, err := repo.client.SMembers(ctx, digestSubscribersKey).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid subscriber id %q: %w", member, err)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func sessionKey(recipientID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(recipientID, 10)
}
