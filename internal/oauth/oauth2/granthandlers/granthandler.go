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

// Package granthandlers provides an interface and implementations for handling OAuth 2.0 grant types.
package granthandlers

import (
	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/scope/validator"
)

// GrantHandlerInterface defines the interface for handling OAuth 2.0 grants.
type GrantHandlerInterface interface {
	ValidateGrant(tokenRequest *model.TokenRequest, client *clientmodel.OAuthClient) *model.ErrorResponse
	HandleGrant(tokenRequest *model.TokenRequest, client *clientmodel.OAuthClient,
		ctx *model.TokenContext) (*model.TokenResponseDTO, *model.ErrorResponse)
}

// validateRequestedScopes applies the scope validator and converts a scope
// error into an OAuth2 error response.
func validateRequestedScopes(requestedScope string, client *clientmodel.OAuthClient,
	scopeValidator validator.ScopeValidatorInterface) (string, *model.ErrorResponse) {
	validatedScope, scopeErr := scopeValidator.ValidateScopes(requestedScope, client)
	if scopeErr != nil {
		return "", &model.ErrorResponse{
			Error:            scopeErr.Error,
			ErrorDescription: scopeErr.ErrorDescription,
		}
	}
	return validatedScope, nil
}

// serverErrorResponse builds the generic server error response returned when
// token generation fails.
func serverErrorResponse(description string) *model.ErrorResponse {
	return &model.ErrorResponse{
		Error:            constants.ErrorServerError,
		ErrorDescription: description,
	}
}
