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

// Package store provides functionality for user consent persistence and retrieval.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/drsect0r/server-library/internal/oauth/consent/constants"
	"github.com/drsect0r/server-library/internal/oauth/consent/model"
	"github.com/drsect0r/server-library/internal/system/database/provider"
	"github.com/drsect0r/server-library/internal/system/log"
)

// ErrConsentNotFound is returned when no consent is recorded for the requested key.
var ErrConsentNotFound = errors.New("consent not found")

const loggerComponentName = "UserConsentStore"

// GetUserConsent retrieves a recorded consent for the given user, client and
// normalized scope set.
func GetUserConsent(userID, clientID, scopes string) (*model.UserConsent, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("identity")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	results, err := dbClient.Query(constants.QueryGetUserConsent, userID, clientID, scopes)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrConsentNotFound
	}
	row := results[0]

	consent := &model.UserConsent{}
	consent.ConsentID, _ = row["consent_id"].(string)
	consent.UserID, _ = row["user_id"].(string)
	consent.ClientID, _ = row["client_id"].(string)
	consent.Scopes, _ = row["scopes"].(string)
	if grantedAt, ok := row["granted_at"].(time.Time); ok {
		consent.GrantedAt = grantedAt
	}

	return consent, nil
}

// CreateUserConsent records a new user consent.
func CreateUserConsent(consent *model.UserConsent) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("identity")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	_, err = dbClient.Execute(constants.QueryInsertUserConsent, consent.ConsentID, consent.UserID,
		consent.ClientID, consent.Scopes, consent.GrantedAt)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// DeleteUserConsents removes all consents the user granted to the client.
func DeleteUserConsents(userID, clientID string) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("identity")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	_, err = dbClient.Execute(constants.QueryDeleteUserConsents, userID, clientID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}
