/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"encoding/json"
	"time"

	"github.com/garyburd/redigo/redis"

	"jinr.ru/greenlab/go-pim/pkg/log"
	"jinr.ru/greenlab/go-pim/pkg/srv/ifc"
)

const (
	RedisTimeout = 2 * time.Second
)

// RedisPublisher sends journal records as JSON to a redis channel
type RedisPublisher struct {
	pool    *redis.Pool
	channel string
}

var _ ifc.Publisher = &RedisPublisher{}

func NewRedisPublisher(address, channel string) *RedisPublisher {
	log.Info("Publishing events to redis: address: %s channel: %s", address, channel)
	return &RedisPublisher{
		pool: &redis.Pool{
			MaxIdle:     2,
			IdleTimeout: time.Minute,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", address,
					redis.DialConnectTimeout(RedisTimeout),
					redis.DialReadTimeout(RedisTimeout),
					redis.DialWriteTimeout(RedisTimeout))
			},
		},
		channel: channel,
	}
}

// Publish returns the number of subscribers that received the message
func (p *RedisPublisher) Publish(v interface{}) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	conn := p.pool.Get()
	defer conn.Close()
	return redis.Int(conn.Do("PUBLISH", p.channel, data))
}

func (p *RedisPublisher) Close() error {
	return p.pool.Close()
}
