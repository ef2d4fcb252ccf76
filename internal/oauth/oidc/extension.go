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

package oidc

import (
	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
)

// OpenIDScope is the scope value that activates OpenID Connect processing.
const OpenIDScope = "openid"

// TokenEndpointExtensionInterface defines a post-grant extension run by the
// token endpoint before the response is assembled. An extension may decline to
// act by returning nil parameters without an error; returned parameters are
// merged into the token response body.
type TokenEndpointExtensionInterface interface {
	Process(client *clientmodel.OAuthClient, grantedScopes []string,
		context *model.TokenContext) (map[string]interface{}, error)
}

// IDTokenExtension issues an ID token when the granted scopes include openid
// and the grant resolved an end-user subject. It declines silently otherwise.
type IDTokenExtension struct {
	IDTokenService IDTokenServiceInterface
}

// NewIDTokenExtension creates a new instance of IDTokenExtension.
func NewIDTokenExtension() TokenEndpointExtensionInterface {
	return &IDTokenExtension{
		IDTokenService: NewIDTokenService(),
	}
}

// Process mints an ID token into the response parameters when applicable.
func (ext *IDTokenExtension) Process(client *clientmodel.OAuthClient, grantedScopes []string,
	context *model.TokenContext) (map[string]interface{}, error) {
	if !containsScope(grantedScopes, OpenIDScope) {
		return nil, nil
	}
	if context == nil || context.TokenAttributes == nil {
		return nil, nil
	}

	subject, _ := context.TokenAttributes[model.AttrSubject].(string)
	if subject == "" {
		return nil, nil
	}

	request := IDTokenRequest{
		Client:  client,
		Subject: subject,
	}
	if authTime, ok := context.TokenAttributes[model.AttrAuthTime].(int64); ok {
		request.AuthTime = authTime
	}
	if nonce, ok := context.TokenAttributes[model.AttrNonce].(string); ok {
		request.Nonce = nonce
	}
	if accessToken, ok := context.TokenAttributes[model.AttrAccessToken].(string); ok {
		request.AccessToken = accessToken
	}
	if code, ok := context.TokenAttributes[model.AttrAuthorizationCode].(string); ok {
		request.AuthorizationCode = code
	}

	idToken, err := ext.IDTokenService.IssueIDToken(request)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"id_token": idToken}, nil
}

func containsScope(scopes []string, target string) bool {
	for _, s := range scopes {
		if s == target {
			return true
		}
	}
	return false
}
