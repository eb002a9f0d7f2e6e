package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Resolver looks up host addresses
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Prober checks that the reservation site is reachable before a run.
// The result is advisory only.
type Prober struct {
	host     string
	url      string
	timeout  time.Duration
	resolver Resolver
	http     *resty.Client
	insecure *resty.Client
	logger   *zap.Logger

	resolvConf string
}

// New creates a prober for host and url. timeout bounds the DNS lookup and each HTTP request.
func New(host, url string, timeout time.Duration, logger *zap.Logger) *Prober {
	client := resty.New()
	client.SetTimeout(timeout)

	insecure := resty.New()
	insecure.SetTimeout(timeout)
	insecure.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) // #nosec G402 - reachability probe only

	return &Prober{
		host:       host,
		url:        url,
		timeout:    timeout,
		resolver:   net.DefaultResolver,
		http:       client,
		insecure:   insecure,
		logger:     logger.Named("probe"),
		resolvConf: "/etc/resolv.conf",
	}
}

// Check reports whether the run looks able to reach the site. DNS failures
// return false; HTTP timeouts and other HTTP errors are logged and return true.
func (p *Prober) Check(ctx context.Context) bool {
	p.logger.Info("testing network connection")
	p.environment()

	addrs, err := p.lookup(ctx)
	if err != nil || len(addrs) == 0 {
		p.logger.Error("DNS resolution failed", zap.String("host", p.host), zap.Error(err))
		return false
	}
	p.logger.Info("DNS resolution succeeded", zap.String("host", p.host), zap.Strings("addrs", addrs))
	for _, addr := range addrs {
		if addr == "0.0.0.0" {
			p.logger.Warn("host resolved to 0.0.0.0, DNS configuration may be broken", zap.String("host", p.host))
			return false
		}
	}

	p.logger.Info("testing HTTP connection", zap.String("url", p.url))
	res, err := p.http.R().SetContext(ctx).Get(p.url)
	if err == nil {
		p.logger.Info("HTTP connection succeeded", zap.Int("status", res.StatusCode()))
		return true
	}

	if isCertificateError(err) {
		p.logger.Error("TLS certificate error", zap.Error(err))
		res, err = p.insecure.R().SetContext(ctx).Get(p.url)
		if err != nil {
			p.logger.Error("HTTP connection failed without TLS verification", zap.Error(err))
			return false
		}
		p.logger.Info("HTTP connection succeeded without TLS verification", zap.Int("status", res.StatusCode()))
		return true
	}

	if isTimeout(err) {
		p.logger.Error("connection timed out", zap.Error(err))
		p.logger.Info("server may be slow, continuing")
		return true
	}

	p.logger.Error("HTTP connection failed", zap.Error(err))
	p.logger.Info("connection has problems, continuing")
	return true
}

func (p *Prober) lookup(ctx context.Context) ([]string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.resolver.LookupHost(ctx, p.host)
}

func (p *Prober) environment() {
	if hostname, err := os.Hostname(); err == nil {
		p.logger.Debug("runtime", zap.String("hostname", hostname), zap.Int("uid", os.Getuid()))
	}
	data, err := os.ReadFile(p.resolvConf)
	if err != nil {
		p.logger.Debug("could not read resolver configuration", zap.Error(err))
		return
	}
	p.logger.Debug("resolver configuration", zap.String("resolv.conf", string(data)))
}

func isCertificateError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	var verification *tls.CertificateVerificationError
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &verification)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
