package greenlight

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	policyPath     string
	agentID        string
	verdictLogPath string
}

// WithPolicy sets the path to a policy YAML file.
func WithPolicy(path string) Option {
	return func(c *clientConfig) { c.policyPath = path }
}

// WithAgent sets the default agent whose policy applies.
func WithAgent(id string) Option {
	return func(c *clientConfig) { c.agentID = id }
}

// WithVerdictLog appends every verdict to a hash-chained JSONL log.
func WithVerdictLog(path string) Option {
	return func(c *clientConfig) { c.verdictLogPath = path }
}

// GuardOption configures a single Guard call.
type GuardOption func(*guardConfig)

type guardConfig struct {
	agentID string
}

// GuardWithAgent overrides the client-level agent for this guard.
func GuardWithAgent(id string) GuardOption {
	return func(g *guardConfig) { g.agentID = id }
}
