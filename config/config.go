package config

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"google.golang.org/grpc/credentials"
	"gopkg.in/yaml.v3"
)

type TLSConfig struct {
	CertFile     string `yaml:"certFile"`
	KeyFile      string `yaml:"keyFile"`
	RootCertFile string `yaml:"rootCertFile"`
}

type Config struct {
	Listen  string     `yaml:"listen"`
	Catalog string     `yaml:"catalog"`
	TLS     *TLSConfig `yaml:"tls"`
}

func DefaultPath() (string, error) {
	dir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't get user home directory")
	}
	return filepath.Join(dir, ".tabcalc", "config.yml"), nil
}

// Read loads the configuration file at path; with an empty path it tries the
// default location and falls back to defaults when no file exists there.
func Read(path string) (*Config, error) {
	usingDefaultPath := path == ""
	if usingDefaultPath {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) && usingDefaultPath {
		return withDefaults(&Config{}), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open configuration file")
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	return withDefaults(&config), nil
}

func withDefaults(config *Config) *Config {
	if config.Listen == "" {
		config.Listen = ":50051"
	}
	if config.Catalog == "" {
		config.Catalog = "functions.json"
	}
	return config
}

// ServerCredentials builds the transport credentials for the listener. A
// root certificate turns on mutual TLS: clients must present a certificate
// signed by it.
func (c *TLSConfig) ServerCredentials() (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't load server key pair")
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
	}
	if c.RootCertFile != "" {
		rootData, err := os.ReadFile(c.RootCertFile)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read root certificate")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(rootData) {
			return nil, errors.New("couldn't parse root certificate")
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return credentials.NewTLS(tlsConfig), nil
}
