package identity

import "context"

// Anonymous is the identity every unresolvable credential degrades to.
const Anonymous = "anonymous"

// Resolver maps an opaque credential (cookie token, bearer token) to a
// username. Implementations return ("", nil) when the credential is simply
// not theirs to resolve; errors are reserved for backend failures.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (string, error)
}

// Chain tries each resolver in order and returns the first username found.
// Every failure mode collapses to Anonymous: an empty credential, a miss in
// all resolvers, or a backend error (logged by the caller via the returned
// error, but never surfaced to the client).
type Chain struct {
	resolvers []Resolver
}

func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

func (c *Chain) Resolve(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return Anonymous, nil
	}
	var lastErr error
	for _, r := range c.resolvers {
		name, err := r.Resolve(ctx, credential)
		if err != nil {
			lastErr = err
			continue
		}
		if name != "" {
			return name, nil
		}
	}
	return Anonymous, lastErr
}
