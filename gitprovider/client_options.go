/*
Copyright 2020 The Flux CD contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gitprovider

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/gregjones/httpcache"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"

	"github.com/fluxcd/go-git-backup/gitprovider/cache"
)

// TokenType is the authorization scheme access tokens are sent with,
// i.e. "Authorization: token <access token>".
const TokenType = "token"

// ChainableRoundTripperFunc is a function that returns a higher-level "out" RoundTripper,
// chained to call the "in" RoundTripper internally, with extra logic. This function must be able
// to handle "in" being nil, and use the http.DefaultTransport default RoundTripper in that case.
// "out" must never be nil.
type ChainableRoundTripperFunc func(in http.RoundTripper) (out http.RoundTripper)

// CommonClientOptions is a struct containing options that are generic to all clients.
type CommonClientOptions struct {
	// Domain specifies the target domain for the client. If unset, the default domain for the
	// given provider will be used (often exposed as DefaultDomain in respective package).
	// The behaviour when setting this flag might vary between providers, read the documentation on
	// NewClient for more information.
	Domain *string

	// PreChainTransportHook is a function to get a custom RoundTripper that is given as the Transport
	// to the *http.Client given to the provider-specific Client. It can be set for doing arbitrary
	// modifications to HTTP requests.
	// The "chain" looks like follows:
	// Git provider API <-> "Post Chain" <-> Provider Specific (e.g. auth, caching) (in) <-> "Pre Chain" (out) <-> *http.Client
	PreChainTransportHook ChainableRoundTripperFunc

	// PostChainTransportHook is a function to get a custom RoundTripper that is the "final" Transport
	// in the chain before talking to the backing API. "in" is always nil.
	// If unset, a pooled transport from go-cleanhttp is used.
	// The "chain" looks like follows:
	// Git provider API (in==nil) <-> "Post Chain" (out) <-> Provider Specific (e.g. auth, caching) <-> "Pre Chain" <-> *http.Client
	PostChainTransportHook ChainableRoundTripperFunc

	// Logger allows the caller to pass a logger for use by the provider.
	// Failures are logged at the error level, confirmations at V(0) and requests at V(2).
	Logger *logr.Logger

	// CABundle is a []byte containing the CA bundle to use for the client.
	CABundle []byte
}

// ApplyToCommonClientOptions applies the currently set fields in opts to target. If both opts and
// target has the same specific field set, ErrInvalidClientOptions is returned.
func (opts *CommonClientOptions) ApplyToCommonClientOptions(target *CommonClientOptions) error {
	if opts.Domain != nil {
		// Make sure the user didn't specify the Domain twice
		if target.Domain != nil {
			return fmt.Errorf("option Domain already configured: %w", ErrInvalidClientOptions)
		}
		// Don't allow an empty string
		if len(*opts.Domain) == 0 {
			return fmt.Errorf("option Domain cannot be an empty string: %w", ErrInvalidClientOptions)
		}
		target.Domain = opts.Domain
	}

	if opts.PreChainTransportHook != nil {
		if target.PreChainTransportHook != nil {
			return fmt.Errorf("option PreChainTransportHook already configured: %w", ErrInvalidClientOptions)
		}
		target.PreChainTransportHook = opts.PreChainTransportHook
	}

	if opts.PostChainTransportHook != nil {
		if target.PostChainTransportHook != nil {
			return fmt.Errorf("option PostChainTransportHook already configured: %w", ErrInvalidClientOptions)
		}
		target.PostChainTransportHook = opts.PostChainTransportHook
	}

	if opts.Logger != nil {
		if target.Logger != nil {
			return fmt.Errorf("option Logger already configured: %w", ErrInvalidClientOptions)
		}
		target.Logger = opts.Logger
	}

	if opts.CABundle != nil {
		if target.CABundle != nil {
			return fmt.Errorf("option CABundle already configured: %w", ErrInvalidClientOptions)
		}
		target.CABundle = opts.CABundle
	}

	return nil
}

// BuildClientFromTransportChain builds a *http.Client from a chain of ChainableRoundTripperFuncs.
// The first function in the chain is called with "in" == nil. "out" of the first function in the chain,
// is passed as "in" to the second function, and so on. "out" of the last function in the chain is used
// as net/http Client.Transport.
func BuildClientFromTransportChain(chain []ChainableRoundTripperFunc) (*http.Client, error) {
	var transport http.RoundTripper
	for _, rtFunc := range chain {
		transport = rtFunc(transport)
		if transport == nil {
			return nil, ErrInvalidTransportChainReturn
		}
	}
	return &http.Client{Transport: transport}, nil
}

// ClientOption is the interface to implement for passing options to NewClient.
// The clientOptions struct is private to force usage of the With... functions.
type ClientOption interface {
	// ApplyToClientOptions applies set fields of this object into target.
	ApplyToClientOptions(target *ClientOptions) error
}

// ClientOptions is the struct that tracks data about what options have been set.
type ClientOptions struct {
	// clientOptions shares all the common options
	CommonClientOptions

	// authTransport is a ChainableRoundTripperFunc adding authentication credentials to the transport chain.
	authTransport ChainableRoundTripperFunc

	// enableConditionalRequests will be set if conditional requests should be used.
	enableConditionalRequests *bool
}

// ApplyToClientOptions implements ClientOption, and applies the set fields of opts
// into target. If both opts and target has the same specific field set, ErrInvalidClientOptions is returned.
func (opts *ClientOptions) ApplyToClientOptions(target *ClientOptions) error {
	// Apply common values, if any
	if err := opts.CommonClientOptions.ApplyToCommonClientOptions(&target.CommonClientOptions); err != nil {
		return err
	}

	if opts.authTransport != nil {
		// Make sure the user didn't specify the authTransport twice
		if target.authTransport != nil {
			return fmt.Errorf("option authTransport already configured: %w", ErrInvalidClientOptions)
		}
		target.authTransport = opts.authTransport
	}

	if opts.enableConditionalRequests != nil {
		// Make sure the user didn't specify the enableConditionalRequests twice
		if target.enableConditionalRequests != nil {
			return fmt.Errorf("option enableConditionalRequests already configured: %w", ErrInvalidClientOptions)
		}
		target.enableConditionalRequests = opts.enableConditionalRequests
	}
	return nil
}

// GetTransportChain builds the full chain of transports (from left to right,
// as per gitprovider.BuildClientFromTransportChain) of the form described in NewClient.
func (opts *ClientOptions) GetTransportChain() (chain []ChainableRoundTripperFunc) {
	if opts.PostChainTransportHook != nil {
		chain = append(chain, opts.PostChainTransportHook)
	} else {
		chain = append(chain, pooledTransport)
	}
	if opts.authTransport != nil {
		chain = append(chain, opts.authTransport)
	}
	if opts.enableConditionalRequests != nil && *opts.enableConditionalRequests {
		chain = append(chain, cache.NewHTTPCacheTransport)
	}
	if opts.Logger != nil {
		chain = append(chain, requestLogTransport(*opts.Logger))
	}
	if opts.PreChainTransportHook != nil {
		chain = append(chain, opts.PreChainTransportHook)
	}
	return
}

// buildCommonOption is a helper for returning a ClientOption out of a common option field.
func buildCommonOption(opt CommonClientOptions) *ClientOptions {
	return &ClientOptions{CommonClientOptions: opt}
}

// errorOption implements ClientOption, and just wraps an error which is immediately returned.
// This struct can be used through the optionError function, in order to make makeOptions fail
// if there are invalid options given to the With... functions.
type errorOption struct {
	err error
}

// ApplyToClientOptions implements ClientOption, but just returns the internal error.
func (e *errorOption) ApplyToClientOptions(*ClientOptions) error { return e.err }

// optionError is a constructor for errorOption.
func optionError(err error) ClientOption {
	return &errorOption{err}
}

//
// Common options
//

// WithDomain initializes a Client for a custom instance of the given domain.
// Only host and port information should be present in domain. domain must not be an empty string.
func WithDomain(domain string) ClientOption {
	return buildCommonOption(CommonClientOptions{Domain: &domain})
}

// WithLogger makes the Client log through log.
func WithLogger(log *logr.Logger) ClientOption {
	return buildCommonOption(CommonClientOptions{Logger: log})
}

// WithPreChainTransportHook registers a ChainableRoundTripperFunc "before" the cache and authentication
// transports in the chain. For more information, see NewClient, and gitprovider.CommonClientOptions.PreChainTransportHook.
func WithPreChainTransportHook(preRoundTripperFunc ChainableRoundTripperFunc) ClientOption {
	// Don't allow an empty value
	if preRoundTripperFunc == nil {
		return optionError(fmt.Errorf("preRoundTripperFunc cannot be nil: %w", ErrInvalidClientOptions))
	}

	return buildCommonOption(CommonClientOptions{PreChainTransportHook: preRoundTripperFunc})
}

// WithPostChainTransportHook registers a ChainableRoundTripperFunc "after" the cache and authentication
// transports in the chain. For more information, see NewClient, and gitprovider.CommonClientOptions.WithPostChainTransportHook.
func WithPostChainTransportHook(postRoundTripperFunc ChainableRoundTripperFunc) ClientOption {
	// Don't allow an empty value
	if postRoundTripperFunc == nil {
		return optionError(fmt.Errorf("postRoundTripperFunc cannot be nil: %w", ErrInvalidClientOptions))
	}

	return buildCommonOption(CommonClientOptions{PostChainTransportHook: postRoundTripperFunc})
}

// WithAccessToken makes the Client send "Authorization: token <accessToken>" with every request.
// The providers' NewClient add this option themselves from Config.AccessToken, so it is
// only needed when building a transport chain by hand.
func WithAccessToken(accessToken string) ClientOption {
	// Don't allow an empty value
	if accessToken == "" {
		return optionError(fmt.Errorf("accessToken cannot be empty: %w", ErrInvalidClientOptions))
	}

	return &ClientOptions{authTransport: accessTokenTransport(accessToken)}
}

func accessTokenTransport(accessToken string) ChainableRoundTripperFunc {
	return func(in http.RoundTripper) http.RoundTripper {
		// A non-standard token type is sent verbatim by oauth2, giving "token <accessToken>".
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: TokenType})
		return &oauth2.Transport{
			Base:   in,
			Source: oauth2.ReuseTokenSource(nil, ts),
		}
	}
}

// WithConditionalRequests instructs the client to use Conditional Requests, caching GET responses
// in memory and revalidating them with ETags. Writes invalidate everything cached for the repository.
// See: https://docs.github.com/en/rest/overview/resources-in-the-rest-api#conditional-requests
func WithConditionalRequests(conditionalRequests bool) ClientOption {
	return &ClientOptions{enableConditionalRequests: &conditionalRequests}
}

// MakeClientOptions assembles a clientOptions struct from ClientOption mutator functions.
func MakeClientOptions(opts ...ClientOption) (*ClientOptions, error) {
	o := &ClientOptions{}
	for _, opt := range opts {
		if err := opt.ApplyToClientOptions(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCustomCAPostChainTransportHook registers a ChainableRoundTripperFunc "after" the cache and authentication
// transports in the chain, trusting caBundle in addition to the system roots.
func WithCustomCAPostChainTransportHook(caBundle []byte) ClientOption {
	// Don't allow an empty value
	if len(caBundle) == 0 {
		return optionError(fmt.Errorf("caBundle cannot be empty: %w", ErrInvalidClientOptions))
	}

	return buildCommonOption(CommonClientOptions{CABundle: caBundle, PostChainTransportHook: caCustomTransport(caBundle)})
}

func caCustomTransport(caBundle []byte) ChainableRoundTripperFunc {
	return func(_ http.RoundTripper) http.RoundTripper {
		// discard error, as we're only using it to check if rootCA is empty
		rootCAs, _ := x509.SystemCertPool()
		if rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}

		rootCAs.AppendCertsFromPEM(caBundle)

		transport := cleanhttp.DefaultPooledTransport()
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    rootCAs,
			MinVersion: tls.VersionTLS12,
		}
		return transport
	}
}

func pooledTransport(_ http.RoundTripper) http.RoundTripper {
	return cleanhttp.DefaultPooledTransport()
}

// requestLogTransport logs every request leaving the *http.Client at V(2).
// It sits below the cache, so cache hits are logged too.
func requestLogTransport(log logr.Logger) ChainableRoundTripperFunc {
	return func(in http.RoundTripper) http.RoundTripper {
		if in == nil {
			in = http.DefaultTransport
		}
		return &loggingRoundTripper{next: in, log: log}
	}
}

type loggingRoundTripper struct {
	next http.RoundTripper
	log  logr.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.V(2).Info("request failed", "method", req.Method, "url", req.URL.String(), "error", err.Error())
		return resp, err
	}
	_, cached := resp.Header[httpcache.XFromCache]
	t.log.V(2).Info("request", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "cached", cached)
	return resp, nil
}
