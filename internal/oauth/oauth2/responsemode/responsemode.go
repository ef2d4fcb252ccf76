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

// Package responsemode provides handlers for delivering authorization
// responses to the client's redirect URI.
package responsemode

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
)

// ErrUnsupportedResponseMode is returned when no handler is registered for a response mode.
var ErrUnsupportedResponseMode = errors.New("unsupported response mode")

// ResponseModeHandlerInterface delivers a set of authorization response
// parameters to the client's redirect URI.
type ResponseModeHandlerInterface interface {
	Name() string
	// BuildRedirectURI encodes the parameters onto the redirect URI.
	BuildRedirectURI(redirectURI string, params map[string]string) (string, error)
	// Respond writes the authorization response to the HTTP response.
	Respond(w http.ResponseWriter, r *http.Request, redirectURI string, params map[string]string) error
}

// GetResponseModeHandler returns the handler registered for the given
// response mode.
func GetResponseModeHandler(responseMode string) (ResponseModeHandlerInterface, error) {
	switch responseMode {
	case constants.ResponseModeQuery:
		return &queryResponseModeHandler{}, nil
	case constants.ResponseModeFragment:
		return &fragmentResponseModeHandler{}, nil
	case constants.ResponseModeFormPost:
		return &formPostResponseModeHandler{}, nil
	default:
		return nil, ErrUnsupportedResponseMode
	}
}

// queryResponseModeHandler encodes the response in the redirect URI query component.
type queryResponseModeHandler struct{}

func (h *queryResponseModeHandler) Name() string {
	return constants.ResponseModeQuery
}

func (h *queryResponseModeHandler) BuildRedirectURI(redirectURI string,
	params map[string]string) (string, error) {
	parsedURI, err := url.Parse(redirectURI)
	if err != nil {
		return "", err
	}
	query := parsedURI.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	parsedURI.RawQuery = query.Encode()
	return parsedURI.String(), nil
}

func (h *queryResponseModeHandler) Respond(w http.ResponseWriter, r *http.Request,
	redirectURI string, params map[string]string) error {
	target, err := h.BuildRedirectURI(redirectURI, params)
	if err != nil {
		return err
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

// fragmentResponseModeHandler encodes the response in the redirect URI fragment component.
type fragmentResponseModeHandler struct{}

func (h *fragmentResponseModeHandler) Name() string {
	return constants.ResponseModeFragment
}

func (h *fragmentResponseModeHandler) BuildRedirectURI(redirectURI string,
	params map[string]string) (string, error) {
	parsedURI, err := url.Parse(redirectURI)
	if err != nil {
		return "", err
	}
	fragment := url.Values{}
	for key, value := range params {
		fragment.Set(key, value)
	}
	parsedURI.Fragment = ""
	return parsedURI.String() + "#" + fragment.Encode(), nil
}

func (h *fragmentResponseModeHandler) Respond(w http.ResponseWriter, r *http.Request,
	redirectURI string, params map[string]string) error {
	target, err := h.BuildRedirectURI(redirectURI, params)
	if err != nil {
		return err
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

// formPostResponseModeHandler delivers the response through an
// auto-submitting HTML form posted to the redirect URI.
type formPostResponseModeHandler struct{}

var formPostTemplate = template.Must(template.New("form_post").Parse(`<!DOCTYPE html>
<html>
<head><title>Submit This Form</title></head>
<body onload="javascript:document.forms[0].submit()">
<form method="post" action="{{.RedirectURI}}">
{{- range $name, $value := .Params}}
<input type="hidden" name="{{$name}}" value="{{$value}}"/>
{{- end}}
</form>
</body>
</html>
`))

func (h *formPostResponseModeHandler) Name() string {
	return constants.ResponseModeFormPost
}

// BuildRedirectURI falls back to query encoding. It is used only where the
// response must be expressed as a plain URI.
func (h *formPostResponseModeHandler) BuildRedirectURI(redirectURI string,
	params map[string]string) (string, error) {
	return (&queryResponseModeHandler{}).BuildRedirectURI(redirectURI, params)
}

func (h *formPostResponseModeHandler) Respond(w http.ResponseWriter, r *http.Request,
	redirectURI string, params map[string]string) error {
	data := struct {
		RedirectURI string
		Params      map[string]string
	}{
		RedirectURI: redirectURI,
		Params:      params,
	}

	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	return formPostTemplate.Execute(w, data)
}

// ResolveResponseMode validates the requested response mode and applies the
// default for the response type when none is requested.
func ResolveResponseMode(requestedMode, defaultMode string) (ResponseModeHandlerInterface, error) {
	if requestedMode == "" {
		requestedMode = defaultMode
	}
	return GetResponseModeHandler(requestedMode)
}
