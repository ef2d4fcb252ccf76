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

// Package oautherror maps OAuth2 error responses onto the HTTP surface. An
// error is carried as a direct JSON body, a 401 challenge, a 501 or a
// redirect depending on the error code and the flow stage it surfaced in.
package oautherror

import (
	"fmt"
	"net/http"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/responsemode"
	"github.com/drsect0r/server-library/internal/system/config"
	"github.com/drsect0r/server-library/internal/system/utils"
)

const defaultRealm = "oauth2"

// StatusCodeForError resolves the HTTP status code carrying the given OAuth2 error code.
func StatusCodeForError(errorCode string) int {
	switch errorCode {
	case constants.ErrorInvalidClient:
		return http.StatusUnauthorized
	case constants.ErrorUnsupportedGrantType:
		return http.StatusNotImplemented
	case constants.ErrorServerError:
		return http.StatusInternalServerError
	case constants.ErrorTemporarilyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// WriteError writes the error response as a direct JSON body with the status
// code mapped from the error code. Client authentication failures carry a
// WWW-Authenticate challenge naming the server realm.
func WriteError(w http.ResponseWriter, errResp *model.ErrorResponse) {
	var respHeaders []map[string]string
	if errResp.Error == constants.ErrorInvalidClient {
		respHeaders = []map[string]string{
			{"WWW-Authenticate": fmt.Sprintf("Basic realm=%q", serverRealm())},
		}
	}
	utils.WriteJSONError(w, errResp.Error, errResp.ErrorDescription,
		StatusCodeForError(errResp.Error), respHeaders)
}

// WriteErrorWithStatus writes the error response as a direct JSON body with
// an explicit status code.
func WriteErrorWithStatus(w http.ResponseWriter, errResp *model.ErrorResponse, statusCode int) {
	utils.WriteJSONError(w, errResp.Error, errResp.ErrorDescription, statusCode, nil)
}

// RedirectError carries the error response to the client's redirect URI
// through the requested response mode. It is used once the authorization
// endpoint has established a trusted redirect target.
func RedirectError(w http.ResponseWriter, r *http.Request, redirectURI, responseMode string,
	errResp *model.ErrorResponse, state string) error {
	rmHandler, err := responsemode.ResolveResponseMode(responseMode, constants.ResponseModeQuery)
	if err != nil {
		return err
	}

	params := map[string]string{
		constants.Error:            errResp.Error,
		constants.ErrorDescription: errResp.ErrorDescription,
	}
	if state != "" {
		params[constants.State] = state
	}

	return rmHandler.Respond(w, r, redirectURI, params)
}

func serverRealm() string {
	realm := config.GetServerRuntime().Config.OAuth.Realm
	if realm == "" {
		realm = defaultRealm
	}
	return realm
}
