package redis

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
)

type RedisConnectionPool struct {
	*redis.Pool
}

// NewRedisConnectionPool dials uri, either a redis:// URL or a bare host:port.
func NewRedisConnectionPool(uri string) *RedisConnectionPool {
	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			if strings.Contains(uri, "://") {
				return redis.DialURL(uri)
			}
			c, err := redis.Dial("tcp", uri)
			if err != nil {
				return nil, err
			}
			return c, err
		},
	}

	return &RedisConnectionPool{pool}
}

// Del removes the given keys.
func (p *RedisConnectionPool) Del(keys ...string) error {
	conn := p.Get()
	defer conn.Close()

	args := make([]interface{}, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := redis.Int64(conn.Do("DEL", args...))
	return err
}

// ZReplace stores member at score, replacing whatever held that score before.
func (p *RedisConnectionPool) ZReplace(key string, score int, member []byte) error {
	conn := p.Get()
	defer conn.Close()

	if err := conn.Send("MULTI"); err != nil {
		return err
	}
	if err := conn.Send("ZREMRANGEBYSCORE", key, score, score); err != nil {
		return err
	}
	if err := conn.Send("ZADD", key, score, member); err != nil {
		return err
	}
	_, err := conn.Do("EXEC")
	return err
}

// ZRangeByScore returns members with min <= score <= max, lowest first.
func (p *RedisConnectionPool) ZRangeByScore(key string, min, max int) ([][]byte, error) {
	conn := p.Get()
	defer conn.Close()

	return redis.ByteSlices(conn.Do("ZRANGEBYSCORE", key, min, max))
}

// HSetInts writes integer fields of a hash.
func (p *RedisConnectionPool) HSetInts(key string, fields map[string]int64) error {
	conn := p.Get()
	defer conn.Close()

	args := redis.Args{}.Add(key)
	for f, v := range fields {
		args = args.Add(f, v)
	}
	_, err := conn.Do("HSET", args...)
	return err
}

// HGetInts reads a hash of integers. A missing key yields an empty map.
func (p *RedisConnectionPool) HGetInts(key string) (map[string]int64, error) {
	conn := p.Get()
	defer conn.Close()

	values, err := redis.Int64Map(conn.Do("HGETALL", key))
	if err != nil {
		return nil, fmt.Errorf("HGETALL %s: %w", key, err)
	}
	return values, nil
}
