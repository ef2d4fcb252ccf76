/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/system/utils"
)

var (
	limiters     = make(map[string]*rate.Limiter)
	limitersLock sync.Mutex
)

// WithRateLimit wraps an HTTP handler with a per-remote-address token bucket rate limiter.
// The limiter is configured via the rate_limiter section of the deployment configuration
// and is a no-op when disabled.
func WithRateLimit(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limiterConfig := config.GetServerRuntime().Config.RateLimiter
		if !limiterConfig.Enabled {
			handler(w, r)
			return
		}

		if !getLimiter(remoteHost(r), limiterConfig).Allow() {
			logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RateLimitMiddleware"))
			logger.Debug("Request rejected by rate limiter", log.String("remoteAddr", r.RemoteAddr))

			w.Header().Set("Retry-After", "1")
			utils.WriteJSONError(w, "slow_down", "Too many requests. Retry later.",
				http.StatusTooManyRequests, nil)
			return
		}

		handler(w, r)
	}
}

// getLimiter returns the limiter for the given key, creating one when absent.
func getLimiter(key string, limiterConfig config.RateLimiterConfig) *rate.Limiter {
	limitersLock.Lock()
	defer limitersLock.Unlock()

	limiter, ok := limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(limiterConfig.RequestsPerSecond), limiterConfig.Burst)
		limiters[key] = limiter
	}
	return limiter
}

// remoteHost extracts the host portion of the request remote address.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
