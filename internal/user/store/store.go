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

// Package store provides the implementation for resource owner persistence operations.
package store

import (
	"errors"
	"fmt"

	"github.com/drsect0r/server-library/internal/system/database/model"
	"github.com/drsect0r/server-library/internal/system/database/provider"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/user/constants"
	usermodel "github.com/drsect0r/server-library/internal/user/model"
)

// ErrUserNotFound is returned when no resource owner matches the lookup.
var ErrUserNotFound = errors.New("user not found")

const loggerComponentName = "UserStore"

// GetUserByUsername retrieves a resource owner by username.
func GetUserByUsername(username string) (*usermodel.User, error) {
	return getUser(constants.QueryGetUserByUsername, username)
}

// GetUserByUserID retrieves a resource owner by user ID.
func GetUserByUserID(userID string) (*usermodel.User, error) {
	return getUser(constants.QueryGetUserByUserID, userID)
}

// CreateUser creates a new resource owner.
func CreateUser(user *usermodel.User) error {
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

	_, err = dbClient.Execute(constants.QueryCreateUser, user.UserID, user.Username, user.CredentialHash)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func getUser(query model.DBQuery, arg string) (*usermodel.User, error) {
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

	results, err := dbClient.Query(query, arg)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrUserNotFound
	}
	if len(results) != 1 {
		logger.Error("unexpected number of results")
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildUserFromResultRow(results[0])
}

// buildUserFromResultRow constructs a User object from a database result row.
func buildUserFromResultRow(row map[string]interface{}) (*usermodel.User, error) {
	userID, ok := row["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse user_id as string")
	}
	username, ok := row["username"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse username as string")
	}

	user := &usermodel.User{
		UserID:   userID,
		Username: username,
	}
	if credentialHash, ok := row["credential_hash"].(string); ok {
		user.CredentialHash = credentialHash
	}

	return user, nil
}
