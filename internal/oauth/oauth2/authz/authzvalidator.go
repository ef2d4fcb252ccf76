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

package authz

import (
	"strings"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/authz/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/pkce"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/responsemode"
	"github.com/drsect0r/server-library/internal/system/log"
)

// AuthorizationValidatorInterface defines the interface for validating OAuth2 authorization requests.
type AuthorizationValidatorInterface interface {
	validateInitialAuthorizationRequest(msg *model.OAuthMessage, client *clientmodel.OAuthClient) (
		bool, string, string)
}

// AuthorizationValidator implements the AuthorizationValidatorInterface for validating OAuth2 authorization requests.
type AuthorizationValidator struct{}

// NewAuthorizationValidator creates a new instance of AuthorizationValidator.
func NewAuthorizationValidator() AuthorizationValidatorInterface {
	return &AuthorizationValidator{}
}

// validateInitialAuthorizationRequest validates the initial authorization request parameters.
// The first return value reports whether the error may be carried to the client's
// redirect URI. Errors found before the redirect URI is trusted must go to the
// error page instead.
func (av *AuthorizationValidator) validateInitialAuthorizationRequest(msg *model.OAuthMessage,
	client *clientmodel.OAuthClient) (bool, string, string) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationValidator"))

	// Extract required parameters.
	responseType := msg.RequestQueryParams[constants.ResponseType]
	clientID := msg.RequestQueryParams[constants.ClientID]
	redirectURI := msg.RequestQueryParams[constants.RedirectURI]

	if clientID == "" {
		return false, constants.ErrorInvalidRequest, "Missing client_id parameter"
	}

	// Validate the redirect URI against the registered client.
	if err := client.ValidateRedirectURI(redirectURI); err != nil {
		logger.Error("Validation failed for redirect URI", log.Error(err))
		return false, constants.ErrorInvalidRequest, "Invalid redirect URI"
	}

	// Validate the response type.
	if responseType == "" {
		return true, constants.ErrorInvalidRequest, "Missing response_type parameter"
	}
	if !client.IsAllowedResponseType(responseType) {
		return true, constants.ErrorUnsupportedResponseType, "Unsupported response type"
	}

	// Validate if the authorization code grant type is allowed for the client.
	if responseType == constants.ResponseTypeCode &&
		!client.IsAllowedGrantType(constants.GrantTypeAuthorizationCode) {
		return true, constants.ErrorUnsupportedGrantType,
			"Authorization code grant type is not allowed for the client"
	}

	// Validate the response mode when requested.
	if responseMode := msg.RequestQueryParams[constants.ResponseMode]; responseMode != "" {
		if _, err := responsemode.GetResponseModeHandler(responseMode); err != nil {
			return true, constants.ErrorInvalidRequest, "Unsupported response mode"
		}
	}

	// Validate the PKCE parameters.
	if errorCode, errorMsg := av.validatePKCEParameters(msg, client, responseType); errorCode != "" {
		return true, errorCode, errorMsg
	}

	// Validate the prompt parameter.
	if errorCode, errorMsg := av.validatePromptParameter(msg); errorCode != "" {
		return true, errorCode, errorMsg
	}

	return false, "", ""
}

// validatePKCEParameters validates the PKCE parameters of the authorization request.
func (av *AuthorizationValidator) validatePKCEParameters(msg *model.OAuthMessage,
	client *clientmodel.OAuthClient, responseType string) (string, string) {
	codeChallenge := msg.RequestQueryParams[constants.CodeChallenge]
	codeChallengeMethod := msg.RequestQueryParams[constants.CodeChallengeMethod]

	if codeChallenge == "" {
		if codeChallengeMethod != "" {
			return constants.ErrorInvalidRequest,
				"code_challenge_method provided without a code_challenge"
		}
		// PKCE is mandatory for public clients and clients registered to require it.
		if responseType == constants.ResponseTypeCode && (client.RequirePKCE || !client.IsConfidential()) {
			return constants.ErrorInvalidRequest, "PKCE is required for this client"
		}
		return "", ""
	}

	if _, err := pkce.GetChallengeMethod(codeChallengeMethod); err != nil {
		return constants.ErrorInvalidRequest, "Unsupported code challenge method"
	}

	return "", ""
}

// validatePromptParameter validates the prompt parameter of the authorization request.
func (av *AuthorizationValidator) validatePromptParameter(msg *model.OAuthMessage) (string, string) {
	prompt := msg.RequestQueryParams[constants.Prompt]
	if prompt == "" {
		return "", ""
	}

	promptValues := strings.Fields(prompt)
	for _, value := range promptValues {
		switch value {
		case constants.PromptNone, constants.PromptLogin, constants.PromptConsent, constants.PromptSelectAccount:
		default:
			return constants.ErrorInvalidRequest, "Invalid prompt parameter"
		}
	}

	// The none prompt must not be combined with other prompt values.
	if len(promptValues) > 1 {
		for _, value := range promptValues {
			if value == constants.PromptNone {
				return constants.ErrorInvalidRequest,
					"The none prompt cannot be combined with other prompt values"
			}
		}
	}

	return "", ""
}
