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

// Package validator provides scope validation against per-client scope policies.
package validator

import (
	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/scope"
)

// ScopeError represents an error during scope validation.
type ScopeError struct {
	Error            string
	ErrorDescription string
}

// ScopeValidatorInterface defines the interface for scope validation.
type ScopeValidatorInterface interface {
	ValidateScopes(requestedScopes string, client *clientmodel.OAuthClient) (string, *ScopeError)
}

// PolicyScopeValidator validates requested scopes against the client's scope policy.
type PolicyScopeValidator struct{}

// NewPolicyScopeValidator creates a new instance of the PolicyScopeValidator.
func NewPolicyScopeValidator() *PolicyScopeValidator {
	return &PolicyScopeValidator{}
}

// ValidateScopes normalizes the requested scope string. When the request omits
// the scope parameter the client's scope policy decides the outcome: `none`
// grants no scopes, `default` grants the client's registered default scopes,
// and `error` rejects the request.
func (sv *PolicyScopeValidator) ValidateScopes(requestedScopes string,
	client *clientmodel.OAuthClient) (string, *ScopeError) {
	if requestedScopes != "" {
		return scope.JoinScopes(scope.ParseScopes(requestedScopes)), nil
	}

	switch client.ScopePolicy {
	case clientmodel.ScopePolicyDefault:
		return scope.JoinScopes(client.DefaultScopes), nil
	case clientmodel.ScopePolicyError:
		return "", &ScopeError{
			Error:            constants.ErrorInvalidScope,
			ErrorDescription: "The scope parameter is required for this client",
		}
	default:
		return "", nil
	}
}
