/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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

// Package utils provides utility functions for OAuth2 authorization operations.
package utils

import (
	"errors"
	"time"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/authz/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/authz/model"
	sessionmodel "github.com/drsect0r/server-library/internal/oauth/session/model"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/utils"
)

const defaultAuthCodeValidityPeriod = 600

// BuildAuthorizationCode generates a new authorization code from the state of
// an authorized session.
func BuildAuthorizationCode(sessionData *sessionmodel.SessionData) (model.AuthorizationCode, error) {
	params := sessionData.OAuthParameters
	if params.ClientID == "" || params.RedirectURI == "" {
		return model.AuthorizationCode{}, errors.New("client_id or redirect_uri is missing")
	}

	authUserID := sessionData.LoggedInUser.UserID
	if authUserID == "" {
		return model.AuthorizationCode{}, errors.New("authenticated user not found")
	}

	authTime := sessionData.AuthTime
	if authTime.IsZero() {
		return model.AuthorizationCode{}, errors.New("authentication time is not set")
	}

	validityPeriod := config.GetServerRuntime().Config.OAuth.AuthorizationCode.ValidityPeriod
	if validityPeriod == 0 {
		validityPeriod = defaultAuthCodeValidityPeriod
	}

	timeCreated := time.Now()

	return model.AuthorizationCode{
		CodeID:              utils.GenerateUUID(),
		Code:                utils.GenerateUUID(),
		ClientID:            params.ClientID,
		RedirectURI:         params.RedirectURI,
		AuthorizedUserID:    authUserID,
		TimeCreated:         timeCreated,
		ExpiryTime:          timeCreated.Add(time.Duration(validityPeriod) * time.Second),
		Scopes:              params.Scopes,
		State:               constants.AuthCodeStateActive,
		CodeChallenge:       params.CodeChallenge,
		CodeChallengeMethod: params.CodeChallengeMethod,
		Nonce:               params.Nonce,
		AuthTime:            authTime.Unix(),
	}, nil
}
