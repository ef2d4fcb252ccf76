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

// Package requestobject resolves JWT request objects passed to the
// authorization endpoint by value or by reference.
package requestobject

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	clientmodel "github.com/drsect0r/server-library/internal/client/model"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
	"github.com/drsect0r/server-library/internal/oauth/oauth2/model"
	"github.com/drsect0r/server-library/internal/system/config"
	httpservice "github.com/drsect0r/server-library/internal/system/http"
	"github.com/drsect0r/server-library/internal/system/jwt"
	"github.com/drsect0r/server-library/internal/system/log"
)

const (
	defaultFetchTimeoutMillis = 5000
	maxRequestObjectBytes     = 64 * 1024
)

// RequestObjectServiceInterface resolves a request object into authorization
// request parameters.
type RequestObjectServiceInterface interface {
	// ResolveRequestObject resolves the request or request_uri parameter of
	// an authorization request. The returned parameters supersede the plain
	// query parameters of the request.
	ResolveRequestObject(requestParam, requestURIParam string,
		client *clientmodel.OAuthClient) (map[string]string, *model.ErrorResponse)
}

// RequestObjectService is the default implementation of the RequestObjectServiceInterface.
type RequestObjectService struct {
	JWTService jwt.JWTServiceInterface
	HTTPClient httpservice.HTTPClientInterface
}

// NewRequestObjectService creates a new instance of RequestObjectService.
func NewRequestObjectService() RequestObjectServiceInterface {
	timeoutMillis := config.GetServerRuntime().Config.OAuth.RequestObject.FetchTimeoutMillis
	if timeoutMillis == 0 {
		timeoutMillis = defaultFetchTimeoutMillis
	}

	return &RequestObjectService{
		JWTService: jwt.GetJWTService(),
		HTTPClient: httpservice.NewHTTPClientWithConfig(&http.Client{
			Timeout: time.Duration(timeoutMillis) * time.Millisecond,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Request object references must resolve directly.
				return errors.New("redirects are not allowed when fetching a request object")
			},
		}),
	}
}

// ResolveRequestObject resolves the request or request_uri parameter of an
// authorization request.
func (ros *RequestObjectService) ResolveRequestObject(requestParam, requestURIParam string,
	client *clientmodel.OAuthClient) (map[string]string, *model.ErrorResponse) {
	requestObjectConfig := config.GetServerRuntime().Config.OAuth.RequestObject

	if requestParam != "" && requestURIParam != "" {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "The request and request_uri parameters are mutually exclusive",
		}
	}

	if requestParam != "" {
		if !requestObjectConfig.Enabled {
			return nil, &model.ErrorResponse{
				Error:            constants.ErrorRequestNotSupported,
				ErrorDescription: "Request objects are not supported",
			}
		}
		return ros.parseRequestObject(requestParam, client)
	}

	if !requestObjectConfig.Enabled || !requestObjectConfig.RequestURIEnabled {
		return nil, &model.ErrorResponse{
			Error:            constants.ErrorRequestURINotSupported,
			ErrorDescription: "Request object references are not supported",
		}
	}

	requestObject, errResp := ros.fetchRequestObject(requestURIParam)
	if errResp != nil {
		return nil, errResp
	}
	return ros.parseRequestObject(requestObject, client)
}

// fetchRequestObject retrieves a request object from an HTTPS reference.
func (ros *RequestObjectService) fetchRequestObject(requestURI string) (string, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RequestObjectService"))

	invalidRequestURI := func(description string) *model.ErrorResponse {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequestURI,
			ErrorDescription: description,
		}
	}

	parsedURI, err := url.Parse(requestURI)
	if err != nil {
		return "", invalidRequestURI("Malformed request_uri")
	}
	if parsedURI.Scheme != "https" {
		return "", invalidRequestURI("The request_uri must use the https scheme")
	}

	resp, err := ros.HTTPClient.Get(requestURI)
	if err != nil {
		logger.Debug("Failed to fetch request object", log.Error(err))
		return "", invalidRequestURI("Failed to fetch the request object")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", log.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", invalidRequestURI(fmt.Sprintf("Request object fetch returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRequestObjectBytes))
	if err != nil {
		return "", invalidRequestURI("Failed to read the request object")
	}

	return string(body), nil
}

// parseRequestObject validates the request object and extracts its
// authorization request parameters.
func (ros *RequestObjectService) parseRequestObject(requestObject string,
	client *clientmodel.OAuthClient) (map[string]string, *model.ErrorResponse) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RequestObjectService"))

	invalidRequestObject := func(description string) *model.ErrorResponse {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequestObject,
			ErrorDescription: description,
		}
	}

	header, payload, err := jwt.DecodeJWT(requestObject)
	if err != nil {
		return nil, invalidRequestObject("Malformed request object")
	}

	alg, _ := header["alg"].(string)
	if alg == "" || alg == "none" {
		if !config.GetServerRuntime().Config.OAuth.RequestObject.AllowUnsigned {
			return nil, invalidRequestObject("Unsigned request objects are not accepted")
		}
	} else {
		if client.PublicKey == "" {
			return nil, invalidRequestObject("No public key registered to verify the request object")
		}
		if err := ros.JWTService.VerifyJWTSignatureWithPEM(requestObject, client.PublicKey); err != nil {
			logger.Debug("Request object signature verification failed", log.Error(err))
			return nil, invalidRequestObject("Invalid request object signature")
		}
	}

	if claimedClientID, ok := payload[constants.ClientID].(string); ok &&
		claimedClientID != client.ClientID {
		return nil, invalidRequestObject("Request object client_id mismatch")
	}

	params := make(map[string]string)
	for key, value := range payload {
		switch v := value.(type) {
		case string:
			params[key] = v
		case float64:
			params[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			params[key] = strconv.FormatBool(v)
		}
	}

	// The request and request_uri parameters must not nest.
	delete(params, constants.RequestParam)
	delete(params, constants.RequestURIParam)

	return params, nil
}
