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

package granthandlers

import (
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
)

// GrantHandlerProviderInterface defines the interface for resolving grant handlers.
type GrantHandlerProviderInterface interface {
	GetGrantHandler(grantType string) GrantHandlerInterface
}

// GrantHandlerProvider resolves grant handlers by exact grant type name.
type GrantHandlerProvider struct {
	handlers map[string]GrantHandlerInterface
}

// NewGrantHandlerProvider creates a new instance of GrantHandlerProvider with
// all supported grant handlers registered.
func NewGrantHandlerProvider() GrantHandlerProviderInterface {
	return &GrantHandlerProvider{
		handlers: map[string]GrantHandlerInterface{
			constants.GrantTypeAuthorizationCode: newAuthorizationCodeGrantHandler(),
			constants.GrantTypeClientCredentials: newClientCredentialsGrantHandler(),
			constants.GrantTypeRefreshToken:      newRefreshTokenGrantHandler(),
			constants.GrantTypePassword:          newPasswordGrantHandler(),
			constants.GrantTypeJWTBearer:         newJWTBearerGrantHandler(),
		},
	}
}

// GetGrantHandler returns the grant handler registered for the given grant
// type, or nil when the grant type is unsupported.
func (p *GrantHandlerProvider) GetGrantHandler(grantType string) GrantHandlerInterface {
	return p.handlers[grantType]
}
