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

// Package store provides functionality for token revocation persistence.
package store

import (
	"fmt"
	"time"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/token/constants"
	"github.com/drsect0r/server-library/internal/system/database/provider"
	"github.com/drsect0r/server-library/internal/system/log"
)

const loggerComponentName = "RevokedTokenStore"

// InsertRevokedToken records a token as revoked. Recording an already revoked
// token is a no-op.
func InsertRevokedToken(tokenID, clientID string, expiryTime time.Time) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	_, err = dbClient.Execute(constants.QueryInsertRevokedToken, tokenID, clientID,
		expiryTime.Format(time.RFC3339), time.Now().Format(time.RFC3339))
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// IsTokenRevoked checks whether a token has been revoked.
func IsTokenRevoked(tokenID string) (bool, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return false, fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	results, err := dbClient.Query(constants.QueryGetRevokedToken, tokenID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return false, fmt.Errorf("failed to execute query: %w", err)
	}

	return len(results) > 0, nil
}

// DeleteExpiredRevokedTokens prunes revocation records for tokens that have
// expired on their own.
func DeleteExpiredRevokedTokens() error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	_, err = dbClient.Execute(constants.QueryDeleteExpiredRevokedTokens, time.Now().Format(time.RFC3339))
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}
