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

package responsemode

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drsect0r/server-library/internal/oauth/oauth2/constants"
)

func TestGetResponseModeHandler(t *testing.T) {
	for _, mode := range []string{constants.ResponseModeQuery, constants.ResponseModeFragment,
		constants.ResponseModeFormPost} {
		handler, err := GetResponseModeHandler(mode)
		assert.NoError(t, err)
		assert.Equal(t, mode, handler.Name())
	}

	handler, err := GetResponseModeHandler("web_message")
	assert.ErrorIs(t, err, ErrUnsupportedResponseMode)
	assert.Nil(t, handler)
}

func TestResolveResponseMode(t *testing.T) {
	handler, err := ResolveResponseMode("", constants.ResponseModeFragment)
	assert.NoError(t, err)
	assert.Equal(t, constants.ResponseModeFragment, handler.Name())

	handler, err = ResolveResponseMode(constants.ResponseModeQuery, constants.ResponseModeFragment)
	assert.NoError(t, err)
	assert.Equal(t, constants.ResponseModeQuery, handler.Name())
}

func TestQueryResponseMode(t *testing.T) {
	handler := &queryResponseModeHandler{}

	target, err := handler.BuildRedirectURI("https://client.example.com/callback?keep=1",
		map[string]string{"code": "abc123", "state": "xyz"})
	assert.NoError(t, err)

	parsed, err := url.Parse(target)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", parsed.Query().Get("code"))
	assert.Equal(t, "xyz", parsed.Query().Get("state"))
	assert.Equal(t, "1", parsed.Query().Get("keep"))

	req := httptest.NewRequest(http.MethodGet, "/oauth2/authorize", nil)
	rr := httptest.NewRecorder()
	assert.NoError(t, handler.Respond(rr, req, "https://client.example.com/callback",
		map[string]string{"code": "abc123"}))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "code=abc123")
}

func TestFragmentResponseMode(t *testing.T) {
	handler := &fragmentResponseModeHandler{}

	target, err := handler.BuildRedirectURI("https://client.example.com/callback",
		map[string]string{"access_token": "token123", "token_type": "Bearer"})
	assert.NoError(t, err)

	base, fragment, found := strings.Cut(target, "#")
	assert.True(t, found)
	assert.Equal(t, "https://client.example.com/callback", base)

	fragmentParams, err := url.ParseQuery(fragment)
	assert.NoError(t, err)
	assert.Equal(t, "token123", fragmentParams.Get("access_token"))
	assert.Equal(t, "Bearer", fragmentParams.Get("token_type"))
}

func TestFormPostResponseMode(t *testing.T) {
	handler := &formPostResponseModeHandler{}

	req := httptest.NewRequest(http.MethodGet, "/oauth2/authorize", nil)
	rr := httptest.NewRecorder()
	assert.NoError(t, handler.Respond(rr, req, "https://client.example.com/callback",
		map[string]string{"code": "abc123", "state": "xyz"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html;charset=UTF-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	body := rr.Body.String()
	assert.Contains(t, body, `action="https://client.example.com/callback"`)
	assert.Contains(t, body, `name="code" value="abc123"`)
	assert.Contains(t, body, `name="state" value="xyz"`)
}
