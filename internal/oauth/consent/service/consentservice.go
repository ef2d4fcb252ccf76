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

// Package service provides user consent resolution for the authorization endpoint.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/drsect0r/server-library/internal/oauth/consent/model"
	"github.com/drsect0r/server-library/internal/oauth/consent/store"
	"github.com/drsect0r/server-library/internal/oauth/scope"
	"github.com/drsect0r/server-library/internal/system/utils"
)

// ConsentServiceInterface defines the interface for user consent resolution.
type ConsentServiceInterface interface {
	// HasUserConsented reports whether the user previously approved the client
	// for the given scope set.
	HasUserConsented(userID, clientID, scopes string) (bool, error)
	// RecordUserConsent persists the user's approval of the client and scope set.
	RecordUserConsent(userID, clientID, scopes string) error
	// RevokeUserConsents removes all approvals the user granted to the client.
	RevokeUserConsents(userID, clientID string) error
}

// ConsentService is the default implementation of the ConsentServiceInterface.
type ConsentService struct{}

// GetConsentService creates a new instance of ConsentService.
func GetConsentService() ConsentServiceInterface {
	return &ConsentService{}
}

// HasUserConsented reports whether the user previously approved the client
// for the given scope set.
func (cs *ConsentService) HasUserConsented(userID, clientID, scopes string) (bool, error) {
	_, err := store.GetUserConsent(userID, clientID, normalizeScopes(scopes))
	if err != nil {
		if errors.Is(err, store.ErrConsentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user consent: %w", err)
	}
	return true, nil
}

// RecordUserConsent persists the user's approval of the client and scope set.
func (cs *ConsentService) RecordUserConsent(userID, clientID, scopes string) error {
	consent := &model.UserConsent{
		ConsentID: utils.GenerateUUID(),
		UserID:    userID,
		ClientID:  clientID,
		Scopes:    normalizeScopes(scopes),
		GrantedAt: time.Now(),
	}
	return store.CreateUserConsent(consent)
}

// RevokeUserConsents removes all approvals the user granted to the client.
func (cs *ConsentService) RevokeUserConsents(userID, clientID string) error {
	return store.DeleteUserConsents(userID, clientID)
}

// normalizeScopes produces an order-independent key for a scope set.
func normalizeScopes(scopes string) string {
	parsed := scope.ParseScopes(scopes)
	sort.Strings(parsed)
	return strings.Join(parsed, " ")
}
