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

// Package constants defines the database queries for resource owner persistence.
package constants

import dbmodel "github.com/drsect0r/server-library/internal/system/database/model"

// QueryGetUserByUsername is the query to retrieve a resource owner by username.
var QueryGetUserByUsername = dbmodel.DBQuery{
	ID:    "USQ-00001",
	Query: "SELECT USER_ID, USERNAME, CREDENTIAL_HASH FROM IDN_USER WHERE USERNAME = $1",
}

// QueryGetUserByUserID is the query to retrieve a resource owner by user ID.
var QueryGetUserByUserID = dbmodel.DBQuery{
	ID:    "USQ-00002",
	Query: "SELECT USER_ID, USERNAME, CREDENTIAL_HASH FROM IDN_USER WHERE USER_ID = $1",
}

// QueryCreateUser is the query to create a new resource owner.
var QueryCreateUser = dbmodel.DBQuery{
	ID:    "USQ-00003",
	Query: "INSERT INTO IDN_USER (USER_ID, USERNAME, CREDENTIAL_HASH) VALUES ($1, $2, $3)",
}
