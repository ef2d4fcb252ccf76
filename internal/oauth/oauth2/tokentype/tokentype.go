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

// Package tokentype provides the token surface strategies for presenting
// issued tokens in responses and extracting incoming tokens from requests.
package tokentype

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
)

// ErrUnsupportedTokenType is returned when no strategy is registered under the requested name.
var ErrUnsupportedTokenType = errors.New("unsupported token type")

// TokenTypeInterface defines a token surface strategy.
type TokenTypeInterface interface {
	Name() string
	// BuildResponseParameters returns the response body parameters that carry
	// the issued access token for this token surface.
	BuildResponseParameters(accessToken model.TokenDTO) (map[string]interface{}, error)
	// ExtractToken extracts an incoming token from the request, returning an
	// empty string when the request carries none for this surface.
	ExtractToken(r *http.Request) string
}

// BearerTokenType implements the Bearer token surface per RFC 6750.
type BearerTokenType struct{}

// Name returns the token type name.
func (t *BearerTokenType) Name() string {
	return constants.TokenTypeBearer
}

// BuildResponseParameters returns the Bearer response body parameters.
func (t *BearerTokenType) BuildResponseParameters(accessToken model.TokenDTO) (map[string]interface{}, error) {
	return map[string]interface{}{
		"access_token": accessToken.Token,
		"token_type":   constants.TokenTypeBearer,
		"expires_in":   accessToken.ExpiresIn,
	}, nil
}

// ExtractToken extracts a Bearer token from the Authorization header or,
// failing that, from the token form parameter.
func (t *BearerTokenType) ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, constants.TokenTypeBearer+" ") {
		return strings.TrimPrefix(authHeader, constants.TokenTypeBearer+" ")
	}
	return r.FormValue(constants.Token)
}

// MACTokenType implements the MAC token surface. The issued session key is
// returned alongside the token so the client can sign subsequent requests.
type MACTokenType struct{}

// Name returns the token type name.
func (t *MACTokenType) Name() string {
	return constants.TokenTypeMAC
}

// BuildResponseParameters returns the MAC response body parameters.
func (t *MACTokenType) BuildResponseParameters(accessToken model.TokenDTO) (map[string]interface{}, error) {
	macKey, err := generateMACKey()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"access_token":  accessToken.Token,
		"token_type":    constants.TokenTypeMAC,
		"expires_in":    accessToken.ExpiresIn,
		"mac_key":       macKey,
		"mac_algorithm": "hmac-sha-256",
	}, nil
}

// ExtractToken extracts the token id from a MAC Authorization header or,
// failing that, from the token form parameter.
func (t *MACTokenType) ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, constants.TokenTypeMAC+" ") {
		// The token is carried as the id attribute of the MAC header.
		attributes := strings.Split(strings.TrimPrefix(authHeader, constants.TokenTypeMAC+" "), ",")
		for _, attribute := range attributes {
			attribute = strings.TrimSpace(attribute)
			if strings.HasPrefix(attribute, "id=") {
				return strings.Trim(strings.TrimPrefix(attribute, "id="), `"`)
			}
		}
	}
	return r.FormValue(constants.Token)
}

func generateMACKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}

var tokenTypes = map[string]TokenTypeInterface{
	constants.TokenTypeBearer: &BearerTokenType{},
	constants.TokenTypeMAC:    &MACTokenType{},
}

// GetTokenType returns the token type strategy registered under the given name.
func GetTokenType(name string) (TokenTypeInterface, error) {
	tokenType, ok := tokenTypes[name]
	if !ok {
		return nil, ErrUnsupportedTokenType
	}
	return tokenType, nil
}

// ResolveTokenType resolves the token type for a token request. The requested
// type from the token_type parameter is honored only when the client allows
// overriding; otherwise the Bearer default applies.
func ResolveTokenType(requested string, client *clientmodel.OAuthClient) (TokenTypeInterface, error) {
	if requested == "" || client == nil || !client.AllowTokenTypeOverride {
		return GetTokenType(constants.TokenTypeBearer)
	}
	return GetTokenType(requested)
}

// ExtractTokenFromRequest extracts an incoming token from the request. A
// token_type_hint selects the surface tried first; the remaining surfaces are
// tried when the hinted one finds nothing. An unrecognized hint returns
// ErrUnsupportedTokenType.
func ExtractTokenFromRequest(r *http.Request, tokenTypeHint string) (string, error) {
	ordered := make([]TokenTypeInterface, 0, len(tokenTypes))
	if tokenTypeHint != "" {
		hinted, err := GetTokenType(tokenTypeHint)
		if err != nil {
			return "", err
		}
		ordered = append(ordered, hinted)
	}
	for _, tokenType := range tokenTypes {
		if tokenTypeHint != "" && tokenType.Name() == tokenTypeHint {
			continue
		}
		ordered = append(ordered, tokenType)
	}

	for _, tokenType := range ordered {
		if token := tokenType.ExtractToken(r); token != "" {
			return token, nil
		}
	}
	return "", nil
}
