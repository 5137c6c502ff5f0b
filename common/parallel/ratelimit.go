// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parallel

import (
	"time"

	"github.com/juju/ratelimit"
)

type RateLimiter interface {
	Take(count int64) time.Duration
}

// NewRateLimiter returns a limiter admitting opsPerSecond operations per
// second. Non-positive rates are unlimited.
func NewRateLimiter(opsPerSecond int) RateLimiter {
	if opsPerSecond <= 0 {
		return &Unlimited{}
	}
	return &bucket{Bucket: ratelimit.NewBucketWithRate(float64(opsPerSecond), int64(opsPerSecond))}
}

type bucket struct {
	*ratelimit.Bucket
}

// Take blocks until count tokens are available and returns the time spent waiting.
func (b *bucket) Take(count int64) time.Duration {
	d := b.Bucket.Take(count)
	if d > 0 {
		time.Sleep(d)
	}
	return d
}

type Unlimited struct{}

func (n *Unlimited) Take(count int64) time.Duration {
	return 0
}
