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

// Package model defines the data structures for auth session management.
package model

import (
	"time"

	oauthmodel "github.com/drsect0r/server-library/internal/oauth/oauth2/model"
)

// AuthenticatedUser represents the end-user resolved for an authorization request.
type AuthenticatedUser struct {
	IsAuthenticated bool
	// FullyAuthenticated is false when the user was resolved from a
	// remembered session rather than fresh credentials.
	FullyAuthenticated bool
	UserID             string
	Username           string
	AuthTime           time.Time
}

// SessionData holds the state of a suspended authorization request.
type SessionData struct {
	OAuthParameters oauthmodel.OAuthParameters
	LoggedInUser    AuthenticatedUser
	AuthTime        time.Time
}
