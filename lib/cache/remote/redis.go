/*
 * Copyright 2025 Lexica Analytics
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package remote

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/rs/zerolog/log"

	"github.com/lexica-nlp/entity-recognition/lib/cache"
)

type RedisConfig struct {
	Host   string
	Port   int
	Prefix string
}

// NewRedisClient returns a redis backed result cache. The cache is an
// optimisation only: redis errors are logged and treated as a miss on
// read and a no-op on write. Eviction is left to the redis maxmemory
// policy rather than enforced client side.
func NewRedisClient(conf RedisConfig) cache.Client {
	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		}),
		prefix: conf.Prefix,
	}
}

type redisCache struct {
	client *redis.Client
	prefix string
}

func (r *redisCache) Ready() bool {
	return r.client.Ping().Err() == nil
}

func (r *redisCache) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	b, err := r.client.Get(r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	} else if err != nil {
		log.Warn().Err(err).Msg("redis cache read failed")
		return nil, false
	}
	return b, true
}

func (r *redisCache) Set(key string, value []byte) {
	if err := r.client.Set(r.key(key), value, 0).Err(); err != nil {
		log.Warn().Err(err).Msg("redis cache write failed")
	}
}
