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

package services

import (
	"net/http"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/token"
	"github.com/drsect0r/server-library/internal/system/middleware"
)

// TokenService defines the service for handling OAuth2 token requests.
type TokenService struct {
	tokenHandler token.TokenHandlerInterface
}

// NewTokenService creates a new instance of TokenService.
func NewTokenService(mux *http.ServeMux) ServiceInterface {
	instance := &TokenService{
		tokenHandler: token.NewTokenHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the TokenService.
func (s *TokenService) RegisterRoutes(mux *http.ServeMux) {
	opts := middleware.CORSOptions{
		AllowedMethods:   "POST",
		AllowedHeaders:   "Content-Type, Authorization",
		AllowCredentials: true,
	}

	mux.HandleFunc(middleware.WithCORS("POST /oauth2/token",
		middleware.WithRateLimit(s.tokenHandler.HandleTokenRequest), opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /oauth2/token",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}, opts))
}
