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

// Package service provides the implementation for resource owner operations.
package service

import (
	"errors"

	"github.com/drsect0r/server-library/internal/system/crypto/hash"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/user/model"
	"github.com/drsect0r/server-library/internal/user/store"
)

// ErrInvalidCredentials is returned when the provided credentials do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserServiceInterface defines the interface for the resource owner service.
type UserServiceInterface interface {
	AuthenticateUser(username, password string) (*model.User, error)
	GetUser(userID string) (*model.User, error)
}

// UserService is the default implementation of the UserServiceInterface.
type UserService struct{}

// GetUserService creates a new instance of UserService.
func GetUserService() UserServiceInterface {
	return &UserService{}
}

// AuthenticateUser verifies the given username and password against the stored credential hash.
// It returns ErrInvalidCredentials for both unknown users and password mismatches so the
// caller cannot distinguish the two cases.
func (us *UserService) AuthenticateUser(username, password string) (*model.User, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "UserService"))

	user, err := store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to retrieve user", log.Error(err))
		return nil, err
	}

	if !hash.BcryptCompare(user.CredentialHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a resource owner by user ID.
func (us *UserService) GetUser(userID string) (*model.User, error) {
	return store.GetUserByUserID(userID)
}
