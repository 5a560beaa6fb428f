package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

// Redis keeps the documents of each sample in a list at
// <database>:<collection>:<id>.
type Redis struct {
	pool   *redis.Pool
	prefix string
}

func OpenRedis(ctx context.Context, uri, database, collection string) (*Redis, error) {
	r := &Redis{
		pool: &redis.Pool{
			MaxIdle: 4,
			Dial: func() (redis.Conn, error) {
				return redis.DialURL(uri)
			},
		},
		prefix: strings.Join([]string{database, collection, ""}, ":"),
	}

	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "store: connect %s", uri)
	}
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		return nil, errors.Wrapf(err, "store: ping %s", uri)
	}
	return r, nil
}

func (r *Redis) Name() string { return strings.TrimSuffix(r.prefix, ":") }

func (r *Redis) keys(conn redis.Conn, f Filter) ([]string, error) {
	if f.ID != "" {
		return []string{r.prefix + f.ID}, nil
	}
	keys, err := redis.Strings(conn.Do("KEYS", r.prefix+"*"))
	if err != nil {
		return nil, errors.Wrap(err, "store: list keys")
	}
	return keys, nil
}

func (r *Redis) Find(ctx context.Context, f Filter) ([]json.RawMessage, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "store: find")
	}
	defer conn.Close()

	keys, err := r.keys(conn, f)
	if err != nil {
		return nil, err
	}

	qc := Filter{QC: f.QC}
	var docs []json.RawMessage
	for _, key := range keys {
		values, err := redis.ByteSlices(conn.Do("LRANGE", key, 0, -1))
		if err != nil {
			return nil, errors.Wrapf(err, "store: read %s", key)
		}
		for _, v := range values {
			ok, err := matches(v, qc)
			if err != nil {
				return nil, errors.Wrapf(err, "store: %s", key)
			}
			if ok {
				docs = append(docs, json.RawMessage(v))
			}
		}
	}
	return docs, nil
}

func (r *Redis) Insert(ctx context.Context, id string, doc json.RawMessage) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return errors.Wrap(err, "store: insert")
	}
	defer conn.Close()

	if _, err := conn.Do("RPUSH", r.prefix+id, []byte(doc)); err != nil {
		return errors.Wrapf(err, "store: insert %s", id)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.pool.Close()
}
