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

// Package constants defines the database queries for OAuth client persistence.
package constants

import dbmodel "github.com/drsect0r/server-library/internal/system/database/model"

// QueryGetClientByClientID is the query to retrieve a registered OAuth client by its client ID.
var QueryGetClientByClientID = dbmodel.DBQuery{
	ID: "CLQ-00001",
	Query: "SELECT CLIENT_ID, CLIENT_SECRET, CLIENT_TYPE, CALLBACK_URIS, GRANT_TYPES, RESPONSE_TYPES, " +
		"AUTH_METHODS, PUBLIC_KEY, ACCESS_TOKEN_VALIDITY, REFRESH_TOKEN_VALIDITY, SCOPE_POLICY, " +
		"DEFAULT_SCOPES, REQUIRE_PKCE, ALLOW_TOKEN_TYPE_OVERRIDE " +
		"FROM IDN_OAUTH_CLIENT WHERE CLIENT_ID = $1",
}

// QueryCreateClient is the query to register a new OAuth client.
var QueryCreateClient = dbmodel.DBQuery{
	ID: "CLQ-00002",
	Query: "INSERT INTO IDN_OAUTH_CLIENT (CLIENT_ID, CLIENT_SECRET, CLIENT_TYPE, CALLBACK_URIS, " +
		"GRANT_TYPES, RESPONSE_TYPES, AUTH_METHODS, PUBLIC_KEY, ACCESS_TOKEN_VALIDITY, " +
		"REFRESH_TOKEN_VALIDITY, SCOPE_POLICY, DEFAULT_SCOPES, REQUIRE_PKCE, ALLOW_TOKEN_TYPE_OVERRIDE) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)",
}

// QueryDeleteClientByClientID is the query to remove a registered OAuth client.
var QueryDeleteClientByClientID = dbmodel.DBQuery{
	ID:    "CLQ-00003",
	Query: "DELETE FROM IDN_OAUTH_CLIENT WHERE CLIENT_ID = $1",
}
