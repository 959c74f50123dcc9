package freebox

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/freebox-agent/pkg/file"
	"github.com/benmeehan/freebox-agent/pkg/identity"
)

const (
	// DefaultHost is the LAN name of the Freebox.
	DefaultHost = "mafreebox.freebox.fr"
	// DefaultPort is the HTTPS port of the Freebox API.
	DefaultPort = 443
	// DefaultAPIVersion is used unless another version is configured.
	DefaultAPIVersion = "v3"
	// AutoAPIVersion asks Open to discover the API version.
	AutoAPIVersion = "auto"
	// DefaultTimeout bounds every HTTP exchange.
	DefaultTimeout = 10 * time.Second
	// DefaultTokenFile is where the app token is stored unless configured otherwise.
	DefaultTokenFile = "app_auth"
)

// Client is the entry point of the library. Create it with New, then call Open.
type Client struct {
	appDesc            identity.AppDescriptor
	tokenStore         identity.TokenStoreInterface
	tokenFile          string
	apiVersion         string
	timeout            time.Duration
	pollInterval       time.Duration
	caCertFile         string
	insecureSkipVerify bool
	httpClient         *http.Client
	remoteHost         RemoteHost
	remoteCode         string
	observer           Observer
	fileOps            file.FileOperations
	logger             zerolog.Logger

	access *Access

	AirMedia      *AirMedia
	Call          *Call
	Connection    *Connection
	DHCP          *DHCP
	Events        *Events
	Freeplug      *Freeplug
	Fs            *Fs
	FTP           *FTP
	Fw            *Fw
	Home          *Home
	LAN           *LAN
	LCD           *LCD
	Netshare      *Netshare
	Notifications *Notifications
	Parental      *Parental
	Phone         *Phone
	Player        *Player
	Remote        *Remote
	RRD           *RRD
	Storage       *Storage
	Switch        *Switch
	System        *System
	TV            *TV
	UPnPAV        *UPnPAV
	UPnPIGD       *UPnPIGD
	Wifi          *Wifi
}

// Option configures a Client.
type Option func(*Client)

// WithAppDescriptor sets the identity presented to the Freebox when pairing.
func WithAppDescriptor(desc identity.AppDescriptor) Option {
	return func(c *Client) { c.appDesc = desc }
}

// WithTokenStore replaces the token store.
func WithTokenStore(store identity.TokenStoreInterface) Option {
	return func(c *Client) { c.tokenStore = store }
}

// WithTokenFile stores the app token as plain JSON in path.
func WithTokenFile(path string) Option {
	return func(c *Client) { c.tokenFile = path }
}

// WithAPIVersion selects the API version, e.g. "v4", or AutoAPIVersion.
func WithAPIVersion(version string) Option {
	return func(c *Client) { c.apiVersion = version }
}

// WithTimeout bounds every HTTP exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithPollInterval sets the delay between authorization status checks while pairing.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) { c.pollInterval = interval }
}

// WithCACertificate trusts only the PEM certificates in path.
func WithCACertificate(path string) Option {
	return func(c *Client) { c.caCertFile = path }
}

// WithInsecureSkipVerify disables certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) { c.insecureSkipVerify = skip }
}

// WithHTTPClient replaces the HTTP client built by Open. TLS options are then ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRemote configures the player remote control.
func WithRemote(host RemoteHost, code string) Option {
	return func(c *Client) {
		c.remoteHost = host
		c.remoteCode = code
	}
}

// WithObserver registers an Observer for request accounting.
func WithObserver(observer Observer) Option {
	return func(c *Client) { c.observer = observer }
}

// WithFileOperations replaces the filesystem access used for the token file and certificates.
func WithFileOperations(fileOps file.FileOperations) Option {
	return func(c *Client) { c.fileOps = fileOps }
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client. Options are applied in order.
func New(opts ...Option) *Client {
	c := &Client{
		appDesc:      identity.DefaultAppDescriptor(),
		tokenFile:    DefaultTokenFile,
		apiVersion:   DefaultAPIVersion,
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
		remoteHost:   LocalRemoteHost(),
		observer:     nopObserver{},
		fileOps:      file.NewFileService(),
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokenStore == nil {
		c.tokenStore = identity.NewTokenStore(c.tokenFile, c.fileOps, nil)
	}
	c.bind(newClosedAccess(c.observer, c.logger))
	return c
}

// Open authenticates the application against the Freebox at host:port, pairing
// it first if no valid app token is stored.
func (c *Client) Open(ctx context.Context, host string, port int) error {
	if err := c.appDesc.Validate(); err != nil {
		return &Error{Kind: ErrorKindInvalidAppDesc, Message: "invalid application descriptor", Err: err}
	}

	httpClient := c.httpClient
	if httpClient == nil {
		var err error
		if httpClient, err = newHTTPClient(c.fileOps, c.caCertFile, c.insecureSkipVerify, c.timeout); err != nil {
			return err
		}
	}

	root := fmt.Sprintf("https://%s:%d", host, port)
	apiVersion := c.apiVersion
	if apiVersion == AutoAPIVersion {
		version, err := discover(ctx, httpClient, root)
		if err != nil {
			return err
		}
		if apiVersion, err = version.Major(); err != nil {
			return err
		}
		c.logger.Info().Str("api_version", version.APIVersion).Str("box_model", version.BoxModelName).Msg("Freebox discovered")
	}
	baseURL := fmt.Sprintf("%s/api/%s/", root, strings.Trim(apiVersion, "/"))

	creds, err := c.tokenStore.Load()
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}
	if creds == nil || creds.AppDescriptor != c.appDesc || creds.AppToken == "" {
		if creds != nil {
			c.logger.Info().Msg("Application descriptor changed, requesting a new app token")
		}
		if creds, err = c.pair(ctx, httpClient, baseURL); err != nil {
			return err
		}
		if err := c.tokenStore.Save(*creds); err != nil {
			return fmt.Errorf("failed to write token file: %w", err)
		}
	}

	c.bind(newAccess(httpClient, baseURL, c.appDesc.AppID, creds.AppToken, c.observer, c.logger))
	return nil
}

// bind instantiates the resource wrappers on top of access.
func (c *Client) bind(access *Access) {
	c.access = access
	c.AirMedia = &AirMedia{access: access}
	c.Call = &Call{access: access}
	c.Connection = &Connection{access: access}
	c.DHCP = &DHCP{access: access}
	c.Events = &Events{access: access}
	c.Freeplug = &Freeplug{access: access}
	c.Fs = &Fs{access: access, fileOps: c.fileOps, path: "/"}
	c.FTP = &FTP{access: access}
	c.Fw = &Fw{access: access}
	c.Home = &Home{access: access}
	c.LAN = &LAN{access: access}
	c.LCD = &LCD{access: access}
	c.Netshare = &Netshare{access: access}
	c.Notifications = &Notifications{access: access}
	c.Parental = &Parental{access: access}
	c.Phone = &Phone{access: access}
	c.Player = &Player{access: access, apiVersion: DefaultPlayerAPIVersion}
	c.Remote = &Remote{access: access, host: c.remoteHost, code: c.remoteCode, keyDelay: DefaultKeyDelay}
	c.RRD = &RRD{access: access}
	c.Storage = &Storage{access: access}
	c.Switch = &Switch{access: access}
	c.System = &System{access: access}
	c.TV = &TV{access: access}
	c.UPnPAV = &UPnPAV{access: access}
	c.UPnPIGD = &UPnPIGD{access: access}
	c.Wifi = &Wifi{access: access}
}

// Access returns the shared access object. Before Open and after Close its
// calls fail with a not-open error.
func (c *Client) Access() *Access {
	return c.access
}

// Permissions returns the permissions granted to the current session.
func (c *Client) Permissions(ctx context.Context) (Permissions, error) {
	return c.access.Permissions(ctx)
}

// Close logs out and releases idle connections.
func (c *Client) Close(ctx context.Context) error {
	if err := c.access.checkOpen(); err != nil {
		return err
	}
	err := c.access.logout(ctx)
	c.access.closed.Store(true)
	c.access.httpClient.CloseIdleConnections()
	if err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

func notOpenError() *Error {
	return &Error{Kind: ErrorKindNotOpen, Message: "freebox client is not open"}
}
