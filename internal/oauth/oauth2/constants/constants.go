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

// Package constants defines constants used across the OAuth2 module.
package constants

// OAuth2 request parameters.
const (
	GrantType           = "grant_type"
	ClientID            = "client_id"
	ClientSecret        = "client_secret"
	RedirectURI         = "redirect_uri"
	Username            = "username"
	Password            = "password"
	Scope               = "scope"
	Code                = "code"
	CodeChallenge       = "code_challenge"
	CodeChallengeMethod = "code_challenge_method"
	CodeVerifier        = "code_verifier"
	RefreshToken        = "refresh_token"
	ResponseType        = "response_type"
	ResponseMode        = "response_mode"
	State               = "state"
	Nonce               = "nonce"
	Prompt              = "prompt"
	Assertion           = "assertion"
	ClientAssertion     = "client_assertion"
	ClientAssertionType = "client_assertion_type"
	RequestParam        = "request"
	RequestURIParam     = "request_uri"
	Token               = "token"
	TokenTypeHint       = "token_type_hint"
	TokenType           = "token_type"
	Error               = "error"
	ErrorDescription    = "error_description"
)

// Server OAuth constants.
const (
	SessionDataKey               = "sessionDataKey"
	SessionDataKeyConsent        = "sessionDataKeyConsent"
	ShowInsecureWarning          = "showInsecureWarning"
	ClientAssertionTypeJWTBearer = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"
)

// Oauth message types.
const (
	TypeInitialAuthorizationRequest     = "initialAuthorizationRequest"
	TypeAuthorizationResponseFromEngine = "authorizationResponseFromEngine"
	TypeConsentResponseFromUser         = "consentResponseFromUser"
)

// OAuth2 endpoints.
const (
	OAuth2TokenEndpoint         = "/oauth2/token" // #nosec G101
	OAuth2AuthorizationEndpoint = "/oauth2/authorize"
	OAuth2IntrospectionEndpoint = "/oauth2/introspect"
	OAuth2RevokeEndpoint        = "/oauth2/revoke"
	OAuth2JWKSEndpoint          = "/oauth2/jwks"
)

// OAuth2 grant types.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypePassword          = "password"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeJWTBearer         = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// OAuth2 response types.
const (
	ResponseTypeCode         = "code"
	ResponseTypeToken        = "token"
	ResponseTypeIDToken      = "id_token"
	ResponseTypeIDTokenToken = "id_token token"
	ResponseTypeNone         = "none"
)

// OAuth2 response modes.
const (
	ResponseModeQuery    = "query"
	ResponseModeFragment = "fragment"
	ResponseModeFormPost = "form_post"
)

// OAuth2 token types.
const (
	TokenTypeBearer = "Bearer"
	TokenTypeMAC    = "MAC"
)

// OAuth2 client authentication methods.
const (
	ClientAuthMethodBasic         = "client_secret_basic"
	ClientAuthMethodPost          = "client_secret_post"
	ClientAuthMethodPrivateKeyJWT = "private_key_jwt"
	ClientAuthMethodNone          = "none"
)

// OAuth2 prompt values.
const (
	PromptNone          = "none"
	PromptLogin         = "login"
	PromptConsent       = "consent"
	PromptSelectAccount = "select_account"
)

// OAuth2 error codes.
const (
	ErrorInvalidRequest          = "invalid_request"
	ErrorInvalidClient           = "invalid_client"
	ErrorInvalidGrant            = "invalid_grant"
	ErrorUnauthorizedClient      = "unauthorized_client"
	ErrorUnsupportedGrantType    = "unsupported_grant_type"
	ErrorUnsupportedTokenType    = "unsupported_token_type"
	ErrorInvalidScope            = "invalid_scope"
	ErrorServerError             = "server_error"
	ErrorTemporarilyUnavailable  = "temporarily_unavailable"
	ErrorUnsupportedResponseType = "unsupported_response_type"
	ErrorAccessDenied            = "access_denied"
	ErrorLoginRequired           = "login_required"
	ErrorInteractionRequired     = "interaction_required"
	ErrorInvalidRequestURI       = "invalid_request_uri"
	ErrorInvalidRequestObject    = "invalid_request_object"
	ErrorRequestNotSupported     = "request_not_supported"
	ErrorRequestURINotSupported  = "request_uri_not_supported"
)
