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

// Package model defines the data structures for registered OAuth clients.
package model

import (
	"fmt"
	"net/url"

	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/system/utils"
)

// Client types. Resource servers hold credentials to call the introspection
// and revocation endpoints but never request tokens themselves. Unregistered
// clients are synthesized at runtime when the deployment allows them.
const (
	ClientTypePublic         = "public"
	ClientTypeConfidential   = "confidential"
	ClientTypeResourceServer = "resource-server"
	ClientTypeUnregistered   = "unregistered"
)

// Scope policy names. Applied when an authorization or token request omits
// the scope parameter.
const (
	ScopePolicyNone    = "none"
	ScopePolicyDefault = "default"
	ScopePolicyError   = "error"
)

// OAuthClient represents a registered OAuth client.
type OAuthClient struct {
	ClientID                 string
	HashedClientSecret       string
	Type                     string
	RedirectURIs             []string
	AllowedGrantTypes        []string
	AllowedResponseTypes     []string
	TokenEndpointAuthMethods []string
	PublicKey                string
	AccessTokenValidity      int64
	RefreshTokenValidity     int64
	ScopePolicy              string
	DefaultScopes            []string
	RequirePKCE              bool
	AllowTokenTypeOverride   bool
}

// IsConfidential reports whether the client holds credentials it must
// authenticate with.
func (c *OAuthClient) IsConfidential() bool {
	return c.Type == ClientTypeConfidential || c.Type == ClientTypeResourceServer
}

// IsAllowedGrantType checks if the provided grant type is allowed.
func (c *OAuthClient) IsAllowedGrantType(grantType string) bool {
	for _, allowedGrantType := range c.AllowedGrantTypes {
		if grantType == allowedGrantType {
			return true
		}
	}
	return false
}

// IsAllowedResponseType checks if the provided response type is allowed.
func (c *OAuthClient) IsAllowedResponseType(responseType string) bool {
	for _, allowedResponseType := range c.AllowedResponseTypes {
		if responseType == allowedResponseType {
			return true
		}
	}
	return false
}

// IsAllowedAuthMethod checks if the provided token endpoint authentication
// method is allowed. A client with no registered methods accepts any method
// matching its type.
func (c *OAuthClient) IsAllowedAuthMethod(method string) bool {
	if len(c.TokenEndpointAuthMethods) == 0 {
		return true
	}
	for _, allowedMethod := range c.TokenEndpointAuthMethods {
		if method == allowedMethod {
			return true
		}
	}
	return false
}

// ValidateRedirectURI validates the provided redirect URI against the registered redirect URIs.
func (c *OAuthClient) ValidateRedirectURI(redirectURI string) error {
	logger := log.GetLogger()

	// Check if the redirect URI is empty.
	if redirectURI == "" {
		// Check if multiple redirect URIs are registered.
		if len(c.RedirectURIs) != 1 {
			return fmt.Errorf("redirect URI is required in the authorization request")
		}
		// Check if only a part of the redirect uri is registered.
		parsed, err := url.Parse(c.RedirectURIs[0])
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("registered redirect URI is not fully qualified")
		}

		// Valid scenario.
		return nil
	}

	// Check if the redirect URI is registered.
	if !c.isValidRedirectURI(redirectURI) {
		return fmt.Errorf("your application's redirect URL does not match with the registered redirect URLs")
	}

	// Parse the redirect URI.
	parsedRedirectURI, err := utils.ParseURL(redirectURI)
	if err != nil {
		logger.Error("Failed to parse redirect URI", log.Error(err))
		return fmt.Errorf("invalid redirect URI: %s", err.Error())
	}
	// Check if it is a fragment URI.
	if parsedRedirectURI.Fragment != "" {
		return fmt.Errorf("redirect URI must not contain a fragment component")
	}

	return nil
}

// isValidRedirectURI checks if the provided redirect URI is valid.
func (c *OAuthClient) isValidRedirectURI(redirectURI string) bool {
	for _, allowedRedirectURI := range c.RedirectURIs {
		if redirectURI == allowedRedirectURI {
			return true
		}
	}
	return false
}
