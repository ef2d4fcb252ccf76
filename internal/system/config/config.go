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

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"os"
	"path/filepath"

	"github.com/drsect0r/server-library/internal/system/log"

	yaml "gopkg.in/yaml.v3"
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	HTTPOnly bool   `yaml:"http_only"`
}

// GateClientConfig holds the configuration of the login and consent gate application.
type GateClientConfig struct {
	Hostname    string `yaml:"hostname"`
	Port        int    `yaml:"port"`
	Scheme      string `yaml:"scheme"`
	LoginPath   string `yaml:"login_path"`
	ConsentPath string `yaml:"consent_path"`
	ErrorPath   string `yaml:"error_path"`
}

// SecurityConfig holds the security configuration details.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// CORSConfig holds the CORS configuration details.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the different database configuration details.
type DatabaseConfig struct {
	Identity DataSource `yaml:"identity"`
	Runtime  DataSource `yaml:"runtime"`
}

// JWTConfig holds the JWT signing configuration details.
type JWTConfig struct {
	Issuer             string `yaml:"issuer"`
	SignatureAlgorithm string `yaml:"signature_algorithm"`
	ValidityPeriod     int64  `yaml:"validity_period"`
}

// RefreshTokenConfig holds the refresh token configuration details.
type RefreshTokenConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
	RenewOnGrant   bool  `yaml:"renew_on_grant"`
}

// IDTokenConfig holds the ID token configuration details.
type IDTokenConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
}

// AuthorizationCodeConfig holds the authorization code configuration details.
type AuthorizationCodeConfig struct {
	ValidityPeriod int64 `yaml:"validity_period"`
}

// RequestObjectConfig holds the configuration for JWT request objects
// on the authorization endpoint.
type RequestObjectConfig struct {
	Enabled            bool  `yaml:"enabled"`
	RequestURIEnabled  bool  `yaml:"request_uri_enabled"`
	AllowUnsigned      bool  `yaml:"allow_unsigned"`
	FetchTimeoutMillis int64 `yaml:"fetch_timeout_millis"`
}

// OAuthConfig holds the OAuth configuration details.
type OAuthConfig struct {
	Realm                    string                  `yaml:"realm"`
	AllowUnregisteredClients bool                    `yaml:"allow_unregistered_clients"`
	JWT                      JWTConfig               `yaml:"jwt"`
	RefreshToken             RefreshTokenConfig      `yaml:"refresh_token"`
	IDToken                  IDTokenConfig           `yaml:"id_token"`
	AuthorizationCode        AuthorizationCodeConfig `yaml:"authorization_code"`
	RequestObject            RequestObjectConfig     `yaml:"request_object"`
}

// RateLimiterConfig holds the token endpoint rate limiter configuration details.
type RateLimiterConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	GateClient  GateClientConfig  `yaml:"gate_client"`
	Security    SecurityConfig    `yaml:"security"`
	CORS        CORSConfig        `yaml:"cors"`
	Database    DatabaseConfig    `yaml:"database"`
	OAuth       OAuthConfig       `yaml:"oauth"`
	RateLimiter RateLimiterConfig `yaml:"rate_limiter"`
}

// LoadConfig loads the configurations from the specified YAML file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
