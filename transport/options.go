package transport

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRegistrationName             = "quiclistener"
	DefaultIdleTimeout                  = 2 * time.Minute
	DefaultMaxBidirectionalStreamCount  = 100
	DefaultMaxUnidirectionalStreamCount = 10
)

// Options configures the native transport behind a ConnectionListener.
type Options struct {
	// ALPN is the application protocol identifier the session accepts.
	// It is required.
	ALPN string `yaml:"alpn"`

	// RegistrationName names the native registration.
	// If empty, DefaultRegistrationName is used.
	RegistrationName string `yaml:"registration_name"`

	// IdleTimeout is the duration after which an inactive connection is closed.
	// If zero, DefaultIdleTimeout is used. The transport has no way to disable
	// the idle timeout.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxBidirectionalStreamCount limits the bidirectional streams a peer may open.
	// Zero forbids them. If nil, DefaultMaxBidirectionalStreamCount is used.
	MaxBidirectionalStreamCount *uint16 `yaml:"max_bidirectional_streams"`

	// MaxUnidirectionalStreamCount limits the unidirectional streams a peer may open.
	// Zero forbids them. If nil, DefaultMaxUnidirectionalStreamCount is used.
	MaxUnidirectionalStreamCount *uint16 `yaml:"max_unidirectional_streams"`

	// CertFile and KeyFile locate a PEM encoded key pair. They are loaded
	// during Bind when Certificate is empty.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// Certificate is the server credential the security config is derived from.
	Certificate tls.Certificate `yaml:"-"`
}

// ParseOptions decodes YAML encoded options.
func ParseOptions(data []byte) (*Options, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return &opts, nil
}

// LoadOptions reads YAML encoded options from a file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOptions(data)
}

// StreamCount returns a pointer to n, for the stream count options.
func StreamCount(n uint16) *uint16 {
	return &n
}

// Validate reports whether the options can be used to bind a listener.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: nil options", ErrInvalidOptions)
	}
	if o.ALPN == "" {
		return fmt.Errorf("%w: alpn is required", ErrInvalidOptions)
	}
	if o.IdleTimeout < 0 {
		return fmt.Errorf("%w: negative idle timeout %s", ErrInvalidOptions, o.IdleTimeout)
	}
	if o.hasCertificate() {
		return nil
	}
	if o.CertFile == "" || o.KeyFile == "" {
		return fmt.Errorf("%w: a certificate or both cert_file and key_file are required", ErrInvalidOptions)
	}
	return nil
}

// LoadCertificate loads Certificate from CertFile and KeyFile.
func (o *Options) LoadCertificate() error {
	cert, err := tls.LoadX509KeyPair(o.CertFile, o.KeyFile)
	if err != nil {
		return err
	}
	o.Certificate = cert
	return nil
}

func (o *Options) hasCertificate() bool {
	return len(o.Certificate.Certificate) > 0
}

func (o *Options) registrationName() string {
	if o.RegistrationName != "" {
		return o.RegistrationName
	}
	return DefaultRegistrationName
}

func (o *Options) idleTimeout() time.Duration {
	if o.IdleTimeout > 0 {
		return o.IdleTimeout
	}
	return DefaultIdleTimeout
}

func (o *Options) maxBidirectionalStreamCount() uint16 {
	if o.MaxBidirectionalStreamCount != nil {
		return *o.MaxBidirectionalStreamCount
	}
	return DefaultMaxBidirectionalStreamCount
}

func (o *Options) maxUnidirectionalStreamCount() uint16 {
	if o.MaxUnidirectionalStreamCount != nil {
		return *o.MaxUnidirectionalStreamCount
	}
	return DefaultMaxUnidirectionalStreamCount
}

// Clone creates a copy of the Options.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	clone := *o
	if o.MaxBidirectionalStreamCount != nil {
		n := *o.MaxBidirectionalStreamCount
		clone.MaxBidirectionalStreamCount = &n
	}
	if o.MaxUnidirectionalStreamCount != nil {
		n := *o.MaxUnidirectionalStreamCount
		clone.MaxUnidirectionalStreamCount = &n
	}
	return &clone
}
