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

// Package authz provides the OAuth2 authorization endpoint implementation.
package authz

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	clientprovider "github.com/drsect0r/server-library/internal/client/provider"
	consentprovider "github.com/drsect0r/server-library/internal/oauth/consent/provider"
	consentservice "github.com/drsect0r/server-library/internal/oauth/consent/service"
	authzconstants "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/constants"
	authzmodel "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/requestobject"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/responsemode"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/responsetype"
	oauthutils "github.com/drsect0r/server-library/internal/oauth/oauth2/utils"
	"github.com/drsect0r/server-library/internal/oauth/scope/validator"
	sessionmodel "github.com/drsect0r/server-library/internal/oauth/session/model"
	sessionstore "github.com/drsect0r/server-library/internal/oauth/session/store"
	sessionutils "github.com/drsect0r/server-library/internal/oauth/session/utils"
	"github.com/drsect0r/server-library/internal/system/jwt"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/system/utils"
)

const loggerComponentName = "AuthorizeHandler"

// AuthorizeHandlerInterface defines the interface for handling OAuth2 authorization requests.
type AuthorizeHandlerInterface interface {
	HandleAuthorizeGetRequest(w http.ResponseWriter, r *http.Request)
	HandleAuthorizePostRequest(w http.ResponseWriter, r *http.Request)
}

// AuthorizeHandler implements the AuthorizeHandlerInterface for handling OAuth2 authorization requests.
type AuthorizeHandler struct {
	AuthValidator        AuthorizationValidatorInterface
	ClientProvider       clientprovider.ClientProviderInterface
	ConsentService       consentservice.ConsentServiceInterface
	RequestObjectService requestobject.RequestObjectServiceInterface
	ScopeValidator       validator.ScopeValidatorInterface
	JWTService           jwt.JWTServiceInterface
}

// NewAuthorizeHandler creates a new instance of AuthorizeHandler.
func NewAuthorizeHandler() AuthorizeHandlerInterface {
	return &AuthorizeHandler{
		AuthValidator:        NewAuthorizationValidator(),
		ClientProvider:       clientprovider.NewClientProvider(),
		ConsentService:       consentprovider.NewConsentProvider().GetConsentService(),
		RequestObjectService: requestobject.NewRequestObjectService(),
		ScopeValidator:       validator.NewPolicyScopeValidator(),
		JWTService:           jwt.GetJWTService(),
	}
}

// HandleAuthorizeGetRequest handles authorization requests arriving from the
// user agent. It serves both the initial authorization request and the
// consent response returning from the gate client.
func (ah *AuthorizeHandler) HandleAuthorizeGetRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	oAuthMessage, err := oauthutils.GetOAuthMessage(r, w)
	if err != nil {
		logger.Error("Failed to construct OAuthMessage", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Invalid authorization request", http.StatusBadRequest, nil)
		return
	}

	switch oAuthMessage.RequestType {
	case constants.TypeInitialAuthorizationRequest:
		ah.handleInitialAuthorizationRequest(oAuthMessage, w, r)
	case constants.TypeConsentResponseFromUser:
		ah.handleConsentResponse(oAuthMessage, w, r)
	default:
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Invalid authorization request", http.StatusBadRequest, nil)
	}
}

// HandleAuthorizePostRequest handles the authentication response posted by
// the engine after the gate client completes the login flow.
func (ah *AuthorizeHandler) HandleAuthorizePostRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	var postRequest authzmodel.AuthZPostRequest
	if err := json.NewDecoder(r.Body).Decode(&postRequest); err != nil {
		logger.Error("Failed to decode authorization post request", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if postRequest.SessionDataKey == "" {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Missing sessionDataKey", http.StatusBadRequest, nil)
		return
	}

	sessionDataStore := sessionstore.GetSessionDataStore()
	found, sessionData := sessionDataStore.GetSession(postRequest.SessionDataKey)
	if !found {
		utils.WriteJSONError(w, constants.ErrorInvalidRequest,
			"Invalid sessionDataKey", http.StatusBadRequest, nil)
		return
	}

	client, errResp := ah.getOAuthClient(sessionData.OAuthParameters.ClientID)
	if errResp != "" {
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Failed to process the request", http.StatusInternalServerError, nil)
		return
	}

	// Resolve the authenticated user from the engine assertion.
	authenticatedUser, ok := ah.resolveAuthenticatedUser(postRequest.Assertion)
	if !ok || postRequest.Decision == authzconstants.DecisionDeny {
		errorCode := constants.ErrorAccessDenied
		errorMsg := "User authentication failed"
		if ok {
			errorMsg = "The resource owner denied the request"
		}
		sessionDataStore.ClearSession(postRequest.SessionDataKey)
		ah.writeRedirectResponse(w, ah.buildErrorRedirectURI(&sessionData, errorCode, errorMsg))
		return
	}

	sessionData.LoggedInUser = *authenticatedUser
	sessionData.AuthTime = authenticatedUser.AuthTime
	sessionDataStore.AddSession(postRequest.SessionDataKey, sessionData)

	// Resolve whether the user must be taken through the consent page.
	needsConsent, err := ah.requiresConsent(&sessionData, client)
	if err != nil {
		logger.Error("Failed to resolve user consent", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Failed to process the request", http.StatusInternalServerError, nil)
		return
	}

	if needsConsent {
		if hasPromptValue(sessionData.OAuthParameters.Prompt, constants.PromptNone) {
			sessionDataStore.ClearSession(postRequest.SessionDataKey)
			ah.writeRedirectResponse(w, ah.buildErrorRedirectURI(&sessionData,
				constants.ErrorInteractionRequired, "User interaction is required"))
			return
		}

		// Suspend the flow under a new key until the consent response returns.
		consentKey := sessionutils.GenerateNewSessionDataKey()
		sessionDataStore.AddSession(consentKey, sessionData)
		sessionDataStore.ClearSession(postRequest.SessionDataKey)

		consentPageURI, err := oauthutils.GetConsentPageRedirectURI(map[string]string{
			constants.SessionDataKeyConsent: consentKey,
			constants.ClientID:              sessionData.OAuthParameters.ClientID,
			constants.Scope:                 sessionData.OAuthParameters.Scopes,
		})
		if err != nil {
			logger.Error("Failed to construct consent page URI", log.Error(err))
			utils.WriteJSONError(w, constants.ErrorServerError,
				"Failed to process the request", http.StatusInternalServerError, nil)
			return
		}
		ah.writeRedirectResponse(w, consentPageURI)
		return
	}

	// Complete the flow and hand the redirect URI back to the engine.
	responseParams, rmHandler, err := ah.issueAuthorizationResponse(client, &sessionData)
	if err != nil {
		logger.Error("Failed to issue authorization response", log.Error(err))
		sessionDataStore.ClearSession(postRequest.SessionDataKey)
		ah.writeRedirectResponse(w, ah.buildErrorRedirectURI(&sessionData,
			constants.ErrorServerError, "Failed to issue authorization response"))
		return
	}

	target, err := rmHandler.BuildRedirectURI(sessionData.OAuthParameters.RedirectURI, responseParams)
	if err != nil {
		logger.Error("Failed to construct redirect URI", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorServerError,
			"Failed to process the request", http.StatusInternalServerError, nil)
		return
	}

	sessionDataStore.ClearSession(postRequest.SessionDataKey)
	ah.writeRedirectResponse(w, target)
}

// handleInitialAuthorizationRequest handles the initial authorization request from the client.
func (ah *AuthorizeHandler) handleInitialAuthorizationRequest(oAuthMessage *authzmodel.OAuthMessage,
	w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	clientID := oAuthMessage.RequestQueryParams[constants.ClientID]
	if clientID == "" {
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorInvalidRequest, "Missing client_id parameter")
		return
	}

	// Retrieve the registered OAuth client for the client Id.
	client, errMsg := ah.getOAuthClient(clientID)
	if errMsg != "" {
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorInvalidClient, errMsg)
		return
	}

	// Resolve the request object when one is passed by value or reference.
	requestParam := oAuthMessage.RequestQueryParams[constants.RequestParam]
	requestURIParam := oAuthMessage.RequestQueryParams[constants.RequestURIParam]
	if requestParam != "" || requestURIParam != "" {
		resolvedParams, errResp := ah.RequestObjectService.ResolveRequestObject(
			requestParam, requestURIParam, client)
		if errResp != nil {
			oauthutils.RedirectToErrorPage(w, r, errResp.Error, errResp.ErrorDescription)
			return
		}
		// Parameters carried in the request object supersede the plain query parameters.
		for key, value := range resolvedParams {
			oAuthMessage.RequestQueryParams[key] = value
		}
	}

	// Validate the authorization request.
	redirectAllowed, errorCode, errorMessage := ah.AuthValidator.validateInitialAuthorizationRequest(
		oAuthMessage, client)
	if errorCode != "" {
		if redirectAllowed {
			ah.redirectToClientWithError(oAuthMessage, client, w, r, errorCode, errorMessage)
		} else {
			oauthutils.RedirectToErrorPage(w, r, errorCode, errorMessage)
		}
		return
	}

	// Validate the requested scopes against the client's scope policy.
	validatedScopes, scopeErr := ah.ScopeValidator.ValidateScopes(
		oAuthMessage.RequestQueryParams[constants.Scope], client)
	if scopeErr != nil {
		ah.redirectToClientWithError(oAuthMessage, client, w, r, scopeErr.Error, scopeErr.ErrorDescription)
		return
	}

	// The server holds no user session of its own. A request forbidding
	// interaction can therefore never complete.
	if hasPromptValue(oAuthMessage.RequestQueryParams[constants.Prompt], constants.PromptNone) {
		ah.redirectToClientWithError(oAuthMessage, client, w, r,
			constants.ErrorLoginRequired, "User authentication is required")
		return
	}

	// Resolve the effective redirect URI.
	redirectURI := oAuthMessage.RequestQueryParams[constants.RedirectURI]
	if redirectURI == "" {
		redirectURI = client.RedirectURIs[0]
	}

	// Construct session data.
	oauthParams := model.OAuthParameters{
		SessionDataKey:      sessionutils.GenerateNewSessionDataKey(),
		State:               oAuthMessage.RequestQueryParams[constants.State],
		ClientID:            clientID,
		RedirectURI:         redirectURI,
		ResponseType:        oAuthMessage.RequestQueryParams[constants.ResponseType],
		ResponseMode:        oAuthMessage.RequestQueryParams[constants.ResponseMode],
		Scopes:              validatedScopes,
		Nonce:               oAuthMessage.RequestQueryParams[constants.Nonce],
		Prompt:              oAuthMessage.RequestQueryParams[constants.Prompt],
		CodeChallenge:       oAuthMessage.RequestQueryParams[constants.CodeChallenge],
		CodeChallengeMethod: oAuthMessage.RequestQueryParams[constants.CodeChallengeMethod],
	}
	sessionData := sessionmodel.SessionData{
		OAuthParameters: oauthParams,
		AuthTime:        time.Now(),
	}

	// Store session data in the session store.
	sessionDataStore := sessionstore.GetSessionDataStore()
	sessionDataStore.AddSession(oauthParams.SessionDataKey, sessionData)

	// Append the session data key to the login page redirect.
	queryParams := oAuthMessage.RequestQueryParams
	queryParams[constants.SessionDataKey] = oauthParams.SessionDataKey

	loginPageURI, err := oauthutils.GetLoginPageRedirectURI(queryParams)
	if err != nil {
		logger.Error("Failed to construct login page URI", log.Error(err))
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorServerError,
			"Failed to redirect to login page")
		return
	}

	// Redirect user-agent to the login page.
	http.Redirect(w, r, loginPageURI, http.StatusFound)
}

// handleConsentResponse handles the consent response returning from the gate client.
func (ah *AuthorizeHandler) handleConsentResponse(oAuthMessage *authzmodel.OAuthMessage,
	w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	sessionData := oAuthMessage.SessionData
	if sessionData == nil {
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorInvalidRequest,
			"Invalid authorization request")
		return
	}

	sessionDataStore := sessionstore.GetSessionDataStore()
	consentKey := oAuthMessage.RequestQueryParams[constants.SessionDataKeyConsent]
	if consentKey == "" {
		consentKey = oAuthMessage.RequestBodyParams[constants.SessionDataKeyConsent]
	}
	defer sessionDataStore.ClearSession(consentKey)

	if !sessionData.LoggedInUser.IsAuthenticated {
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorInvalidRequest,
			"Invalid authorization request")
		return
	}

	client, errMsg := ah.getOAuthClient(sessionData.OAuthParameters.ClientID)
	if errMsg != "" {
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorServerError,
			"Failed to process the request")
		return
	}

	decision := oAuthMessage.RequestQueryParams[authzconstants.Decision]
	if decision == "" {
		decision = oAuthMessage.RequestBodyParams[authzconstants.Decision]
	}
	if decision != authzconstants.DecisionApprove {
		target, err := oauthutils.GetURIWithQueryParams(sessionData.OAuthParameters.RedirectURI,
			ah.errorRedirectParams(sessionData, constants.ErrorAccessDenied,
				"The resource owner denied the request"))
		if err != nil {
			logger.Error("Failed to construct redirect URI", log.Error(err))
			oauthutils.RedirectToErrorPage(w, r, constants.ErrorServerError,
				"Failed to process the request")
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	// Record the approval so subsequent requests skip the consent page.
	if err := ah.ConsentService.RecordUserConsent(sessionData.LoggedInUser.UserID,
		sessionData.OAuthParameters.ClientID, sessionData.OAuthParameters.Scopes); err != nil {
		logger.Error("Failed to record user consent", log.Error(err))
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorServerError,
			"Failed to process the request")
		return
	}

	responseParams, rmHandler, err := ah.issueAuthorizationResponse(client, sessionData)
	if err != nil {
		logger.Error("Failed to issue authorization response", log.Error(err))
		target, uriErr := oauthutils.GetURIWithQueryParams(sessionData.OAuthParameters.RedirectURI,
			ah.errorRedirectParams(sessionData, constants.ErrorServerError,
				"Failed to issue authorization response"))
		if uriErr != nil {
			oauthutils.RedirectToErrorPage(w, r, constants.ErrorServerError,
				"Failed to process the request")
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	if err := rmHandler.Respond(w, r, sessionData.OAuthParameters.RedirectURI, responseParams); err != nil {
		logger.Error("Failed to write authorization response", log.Error(err))
		oauthutils.RedirectToErrorPage(w, r, constants.ErrorServerError,
			"Failed to process the request")
	}
}

// issueAuthorizationResponse mints the response parameters of the requested
// response type and resolves the response mode delivering them.
func (ah *AuthorizeHandler) issueAuthorizationResponse(client *clientmodel.OAuthClient,
	sessionData *sessionmodel.SessionData) (map[string]string,
	responsemode.ResponseModeHandlerInterface, error) {
	params := sessionData.OAuthParameters

	rtHandler, err := responsetype.GetResponseTypeHandler(params.ResponseType)
	if err != nil {
		return nil, nil, err
	}

	responseParams, err := rtHandler.IssueParameters(client, sessionData)
	if err != nil {
		return nil, nil, err
	}
	if params.State != "" {
		responseParams[constants.State] = params.State
	}

	rmHandler, err := responsemode.ResolveResponseMode(params.ResponseMode, rtHandler.DefaultResponseMode())
	if err != nil {
		return nil, nil, err
	}

	return responseParams, rmHandler, nil
}

// resolveAuthenticatedUser verifies the engine assertion and extracts the
// authenticated user from its claims.
func (ah *AuthorizeHandler) resolveAuthenticatedUser(assertion string) (*sessionmodel.AuthenticatedUser, bool) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if assertion == "" {
		return nil, false
	}
	if err := ah.JWTService.VerifyJWTSignature(assertion, ah.JWTService.GetPublicKey()); err != nil {
		logger.Error("Failed to verify the engine assertion", log.Error(err))
		return nil, false
	}

	claims, err := jwt.DecodeJWTPayload(assertion)
	if err != nil {
		logger.Error("Failed to decode the engine assertion", log.Error(err))
		return nil, false
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, false
	}
	username, _ := claims["username"].(string)

	authTime := time.Now()
	if claimAuthTime, ok := claims["auth_time"].(float64); ok {
		authTime = time.Unix(int64(claimAuthTime), 0)
	}

	return &sessionmodel.AuthenticatedUser{
		IsAuthenticated:    true,
		FullyAuthenticated: true,
		UserID:             sub,
		Username:           username,
		AuthTime:           authTime,
	}, true
}

// requiresConsent resolves whether the user must be taken through the consent page.
func (ah *AuthorizeHandler) requiresConsent(sessionData *sessionmodel.SessionData,
	client *clientmodel.OAuthClient) (bool, error) {
	if hasPromptValue(sessionData.OAuthParameters.Prompt, constants.PromptConsent) {
		return true, nil
	}

	consented, err := ah.ConsentService.HasUserConsented(sessionData.LoggedInUser.UserID,
		client.ClientID, sessionData.OAuthParameters.Scopes)
	if err != nil {
		return false, err
	}
	return !consented, nil
}

// getOAuthClient retrieves the registered OAuth client for the client Id.
func (ah *AuthorizeHandler) getOAuthClient(clientID string) (*clientmodel.OAuthClient, string) {
	client, err := ah.ClientProvider.GetClientService().GetOAuthClient(clientID)
	if err != nil || client == nil {
		return nil, "Invalid client_id"
	}
	return client, ""
}

// redirectToClientWithError carries a validation error to the client's
// redirect URI using the response mode of the request.
func (ah *AuthorizeHandler) redirectToClientWithError(oAuthMessage *authzmodel.OAuthMessage,
	client *clientmodel.OAuthClient, w http.ResponseWriter, r *http.Request,
	errorCode, errorMessage string) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	redirectURI := oAuthMessage.RequestQueryParams[constants.RedirectURI]
	if redirectURI == "" && len(client.RedirectURIs) == 1 {
		redirectURI = client.RedirectURIs[0]
	}

	queryParams := map[string]string{
		constants.Error:            errorCode,
		constants.ErrorDescription: errorMessage,
	}
	if state := oAuthMessage.RequestQueryParams[constants.State]; state != "" {
		queryParams[constants.State] = state
	}

	target, err := oauthutils.GetURIWithQueryParams(redirectURI, queryParams)
	if err != nil {
		logger.Error("Failed to construct redirect URI", log.Error(err))
		oauthutils.RedirectToErrorPage(w, r, errorCode, errorMessage)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// buildErrorRedirectURI builds a client redirect URI carrying an error response.
func (ah *AuthorizeHandler) buildErrorRedirectURI(sessionData *sessionmodel.SessionData,
	errorCode, errorMessage string) string {
	target, err := oauthutils.GetURIWithQueryParams(sessionData.OAuthParameters.RedirectURI,
		ah.errorRedirectParams(sessionData, errorCode, errorMessage))
	if err != nil {
		return sessionData.OAuthParameters.RedirectURI
	}
	return target
}

// errorRedirectParams assembles the redirect parameters of an error response.
func (ah *AuthorizeHandler) errorRedirectParams(sessionData *sessionmodel.SessionData,
	errorCode, errorMessage string) map[string]string {
	queryParams := map[string]string{
		constants.Error:            errorCode,
		constants.ErrorDescription: errorMessage,
	}
	if sessionData.OAuthParameters.State != "" {
		queryParams[constants.State] = sessionData.OAuthParameters.State
	}
	return queryParams
}

// writeRedirectResponse hands the next redirect target back to the engine.
func (ah *AuthorizeHandler) writeRedirectResponse(w http.ResponseWriter, redirectURI string) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(authzmodel.AuthZPostResponse{RedirectURI: redirectURI}); err != nil {
		logger.Error("Failed to write authorization response", log.Error(err))
	}
}

// hasPromptValue reports whether the prompt parameter carries the given value.
func hasPromptValue(prompt, value string) bool {
	for _, promptValue := range strings.Fields(prompt) {
		if promptValue == value {
			return true
		}
	}
	return false
}
