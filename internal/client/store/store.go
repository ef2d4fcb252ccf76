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

// Package store provides functionality for OAuth client data persistence.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drsect0r/server-library/internal/client/constants"
	"github.com/drsect0r/server-library/internal/client/model"
	dbmodel "github.com/drsect0r/server-library/internal/system/database/model"
	"github.com/drsect0r/server-library/internal/system/database/provider"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/system/utils"
)

// ErrClientNotFound is returned when no client is registered under the requested client ID.
var ErrClientNotFound = errors.New("client not found")

const loggerComponentName = "OAuthClientStore"

// GetOAuthClientByClientID retrieves a registered OAuth client by its client ID.
func GetOAuthClientByClientID(clientID string) (*model.OAuthClient, error) {
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

	results, err := dbClient.Query(constants.QueryGetClientByClientID, clientID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrClientNotFound
	}
	if len(results) != 1 {
		logger.Error("unexpected number of results")
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildClientFromResultRow(results[0])
}

// CreateOAuthClient registers a new OAuth client.
func CreateOAuthClient(client *model.OAuthClient) error {
	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			_, err := tx.Exec(constants.QueryCreateClient.Query, client.ClientID, client.HashedClientSecret,
				client.Type, strings.Join(client.RedirectURIs, ","), strings.Join(client.AllowedGrantTypes, ","),
				strings.Join(client.AllowedResponseTypes, ","), strings.Join(client.TokenEndpointAuthMethods, ","),
				client.PublicKey, client.AccessTokenValidity, client.RefreshTokenValidity, client.ScopePolicy,
				strings.Join(client.DefaultScopes, ","), client.RequirePKCE, client.AllowTokenTypeOverride)
			return err
		},
	}

	return executeTransaction(queries)
}

// DeleteOAuthClient removes a registered OAuth client by its client ID.
func DeleteOAuthClient(clientID string) error {
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

	_, err = dbClient.Execute(constants.QueryDeleteClientByClientID, clientID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

// buildClientFromResultRow constructs an OAuthClient object from a database result row.
func buildClientFromResultRow(row map[string]interface{}) (*model.OAuthClient, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	clientID, ok := row["client_id"].(string)
	if !ok {
		logger.Error("failed to parse client_id as string")
		return nil, fmt.Errorf("failed to parse client_id as string")
	}

	client := &model.OAuthClient{
		ClientID: clientID,
	}

	if row["client_secret"] != nil {
		if secret, ok := row["client_secret"].(string); ok {
			client.HashedClientSecret = secret
		}
	}
	if clientType, ok := row["client_type"].(string); ok {
		client.Type = clientType
	}
	if row["callback_uris"] != nil {
		if uris, ok := row["callback_uris"].(string); ok && uris != "" {
			client.RedirectURIs = utils.ParseStringArray(uris)
		}
	}
	if row["grant_types"] != nil {
		if grants, ok := row["grant_types"].(string); ok && grants != "" {
			client.AllowedGrantTypes = utils.ParseStringArray(grants)
		}
	}
	if row["response_types"] != nil {
		if responseTypes, ok := row["response_types"].(string); ok && responseTypes != "" {
			client.AllowedResponseTypes = utils.ParseStringArray(responseTypes)
		}
	}
	if row["auth_methods"] != nil {
		if methods, ok := row["auth_methods"].(string); ok && methods != "" {
			client.TokenEndpointAuthMethods = utils.ParseStringArray(methods)
		}
	}
	if row["public_key"] != nil {
		if publicKey, ok := row["public_key"].(string); ok {
			client.PublicKey = publicKey
		}
	}
	client.AccessTokenValidity = parseInt64Field(row["access_token_validity"])
	client.RefreshTokenValidity = parseInt64Field(row["refresh_token_validity"])
	if policy, ok := row["scope_policy"].(string); ok {
		client.ScopePolicy = policy
	}
	if row["default_scopes"] != nil {
		if scopes, ok := row["default_scopes"].(string); ok && scopes != "" {
			client.DefaultScopes = utils.ParseStringArray(scopes)
		}
	}
	client.RequirePKCE = parseBoolField(row["require_pkce"])
	client.AllowTokenTypeOverride = parseBoolField(row["allow_token_type_override"])

	return client, nil
}

// parseInt64Field normalizes the integer representations returned by the supported drivers.
func parseInt64Field(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// parseBoolField normalizes the boolean representations returned by the supported drivers.
func parseBoolField(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

// executeTransaction is a helper function to handle database transactions.
func executeTransaction(queries []func(tx dbmodel.TxInterface) error) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := provider.GetDBProvider().GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logger.Error("Failed to close database client", log.Error(closeErr))
		}
	}()

	tx, err := dbClient.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, query := range queries {
		if err := query(tx); err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
			}
			return fmt.Errorf("failed to execute query in transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
