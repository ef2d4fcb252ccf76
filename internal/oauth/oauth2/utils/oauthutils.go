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

// Package utils provides utility functions for OAuth2 operations.
package utils

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	authzmodel "github.com/drsect0r/server-library/internal/oauth/oauth2/authz/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	sessionmodel "github.com/drsect0r/server-library/internal/oauth/session/model"
	sessionstore "github.com/drsect0r/server-library/internal/oauth/session/store"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/log"
	"github.com/drsect0r/server-library/internal/system/utils"
)

// GetOAuthMessage extracts the OAuth message from the request and response writer.
func GetOAuthMessage(r *http.Request, w http.ResponseWriter) (*authzmodel.OAuthMessage, error) {
	if r == nil || w == nil {
		return nil, errors.New("request or response writer is nil")
	}

	logger := log.GetLogger()

	// Parse the query parameters.
	if err := r.ParseForm(); err != nil {
		return nil, errors.New("failed to parse form data: " + err.Error())
	}

	sessionDataKey := r.FormValue(constants.SessionDataKey)
	sessionDataKeyConsent := r.FormValue(constants.SessionDataKeyConsent)

	// Determine the request type and the session key that resumes the flow.
	var requestType string
	var activeSessionKey string
	switch {
	case sessionDataKeyConsent != "":
		requestType = constants.TypeConsentResponseFromUser
		activeSessionKey = sessionDataKeyConsent
	case sessionDataKey != "":
		requestType = constants.TypeAuthorizationResponseFromEngine
		activeSessionKey = sessionDataKey
	case r.FormValue(constants.ClientID) != "":
		requestType = constants.TypeInitialAuthorizationRequest
	default:
		return nil, errors.New("invalid request type")
	}

	var sessionData *sessionmodel.SessionData
	if activeSessionKey != "" {
		sessionDataStore := sessionstore.GetSessionDataStore()
		ok, storedData := sessionDataStore.GetSession(activeSessionKey)
		if ok {
			sessionData = &storedData
		} else {
			logger.Debug("Session data not found for session data key",
				log.String("sessionDataKey", activeSessionKey))
		}
	}

	// Extract query parameters.
	queryParams := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	// Extract form/body parameters.
	bodyParams := make(map[string]string)
	for key, values := range r.PostForm {
		if len(values) > 0 {
			bodyParams[key] = values[0]
		}
	}

	return &authzmodel.OAuthMessage{
		RequestType:        requestType,
		SessionData:        sessionData,
		RequestQueryParams: queryParams,
		RequestBodyParams:  bodyParams,
	}, nil
}

// GetURIWithQueryParams constructs a URI with the given query parameters.
// Error codes and descriptions are restricted to the characters allowed in
// OAuth2 error parameters.
func GetURIWithQueryParams(uri string, queryParams map[string]string) (string, error) {
	// Validate the error params if present.
	if err := validateErrorParams(queryParams[constants.Error], queryParams[constants.ErrorDescription]); err != nil {
		return "", err
	}

	return utils.GetURIWithQueryParams(uri, queryParams)
}

// validateErrorParams validates the error code and error description parameters.
func validateErrorParams(err, desc string) error {
	// Define a regex pattern for the allowed character set: %x20-21 / %x23-5B / %x5D-7E
	allowedCharPattern := `^[\x20-\x21\x23-\x5B\x5D-\x7E]*$`
	allowedCharRegex := regexp.MustCompile(allowedCharPattern)

	// Validate the error code.
	if err != "" && !allowedCharRegex.MatchString(err) {
		return fmt.Errorf("invalid error code: %s", err)
	}

	// Validate the error description.
	if desc != "" && !allowedCharRegex.MatchString(desc) {
		return fmt.Errorf("invalid error description: %s", desc)
	}

	return nil
}

// GetLoginPageRedirectURI constructs the gate client login page URI with the
// given query parameters.
func GetLoginPageRedirectURI(queryParams map[string]string) (string, error) {
	gateClient := config.GetServerRuntime().Config.GateClient
	return GetURIWithQueryParams(getGatePageURI(gateClient.LoginPath), queryParams)
}

// GetConsentPageRedirectURI constructs the gate client consent page URI with
// the given query parameters.
func GetConsentPageRedirectURI(queryParams map[string]string) (string, error) {
	gateClient := config.GetServerRuntime().Config.GateClient
	return GetURIWithQueryParams(getGatePageURI(gateClient.ConsentPath), queryParams)
}

// RedirectToErrorPage redirects the user agent to the gate client error page.
// It is used when the request has no trusted redirect URI to carry the error.
func RedirectToErrorPage(w http.ResponseWriter, r *http.Request, code, msg string) {
	logger := log.GetLogger()

	gateClient := config.GetServerRuntime().Config.GateClient
	errorPageURI, err := GetURIWithQueryParams(getGatePageURI(gateClient.ErrorPath), map[string]string{
		constants.Error:            code,
		constants.ErrorDescription: msg,
	})
	if err != nil {
		logger.Error("Failed to construct error page URI", log.Error(err))
		utils.WriteJSONError(w, constants.ErrorServerError, "Failed to process the request",
			http.StatusInternalServerError, nil)
		return
	}

	http.Redirect(w, r, errorPageURI, http.StatusFound)
}

// getGatePageURI builds the base URI of a gate client page.
func getGatePageURI(path string) string {
	gateClient := config.GetServerRuntime().Config.GateClient
	return fmt.Sprintf("%s://%s:%d%s", gateClient.Scheme, gateClient.Hostname, gateClient.Port, path)
}
