package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/session"
)

const sessionKeyPrefix = "session:"

// Open connects to the Redis instance configured in core.Conf.
func Open() (*redis.Client, error) {
	opts, err := redis.ParseURL(core.Conf.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)
	if err = client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

// SessionRegistry is a session.Registry backed by Redis. Keys carry a TTL
// matching the session expiry so stale sessions vanish on their own.
type SessionRegistry struct {
	client *redis.Client
}

var _ session.Registry = (*SessionRegistry)(nil)

func NewSessionRegistry(client *redis.Client) *SessionRegistry {
	return &SessionRegistry{client: client}
}

func (reg *SessionRegistry) SaveSession(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	err = reg.client.Set(ctx, sessionKeyPrefix+sess.ID, data, ttl).Err()
	return errors.Wrap(err, "saving session")
}

func (reg *SessionRegistry) GetSession(ctx context.Context, id string) (session.Session, error) {
	data, err := reg.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}

	var sess session.Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session")
	}
	return sess, nil
}

func (reg *SessionRegistry) DeleteSession(ctx context.Context, id string) error {
	err := reg.client.Del(ctx, sessionKeyPrefix+id).Err()
	return errors.Wrap(err, "deleting session")
}
