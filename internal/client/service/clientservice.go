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

// Package service provides OAuth client management functionality.
package service

import (
	"github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/client/store"
	"github.com/drsect0r/server-library/internal/system/crypto/hash"
)

// ClientServiceInterface defines the interface for OAuth client operations.
type ClientServiceInterface interface {
	GetOAuthClient(clientID string) (*model.OAuthClient, error)
	ValidateClientSecret(client *model.OAuthClient, clientSecret string) bool
}

// ClientService is the default implementation of the ClientServiceInterface.
type ClientService struct{}

// GetClientService creates a new instance of ClientService.
func GetClientService() ClientServiceInterface {
	return &ClientService{}
}

// GetOAuthClient retrieves a registered OAuth client by its client ID.
func (cs *ClientService) GetOAuthClient(clientID string) (*model.OAuthClient, error) {
	return store.GetOAuthClientByClientID(clientID)
}

// ValidateClientSecret compares the provided client secret with the client's stored secret hash.
func (cs *ClientService) ValidateClientSecret(client *model.OAuthClient, clientSecret string) bool {
	if client == nil || client.HashedClientSecret == "" || clientSecret == "" {
		return false
	}
	return hash.BcryptCompare(client.HashedClientSecret, clientSecret)
}
