package credgate

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/credgate/credgate/internal/flows"
	"github.com/credgate/credgate/jwt"
	"github.com/credgate/credgate/password"
	"github.com/credgate/credgate/ratelimit"
	"github.com/credgate/credgate/token"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build, which validates the configuration and wires the flow graph.
type Builder struct {
	config Config

	store   token.Store
	users   UserProvider
	redis   redis.UniversalClient
	backend ratelimit.Backend

	auditSink AuditSink
	logger    *zap.Logger

	built bool
}

// New returns a Builder preloaded with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithTokenStore sets the refresh-token persistence collaborator. Required.
func (b *Builder) WithTokenStore(store token.Store) *Builder {
	b.store = store
	return b
}

// WithUserProvider sets the user database collaborator. Required for
// Login, Register, and ChangePassword; the session surface works without
// it.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.users = up
	return b
}

// WithRedis selects the centralized rate-limit backend over the given
// client. Use this for multi-instance deployments where every process must
// share one admission budget.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRateLimitBackend sets an explicit backend, overriding WithRedis.
// Without either, Build falls back to the in-process backend, which is only
// correct for single-instance deployments.
func (b *Builder) WithRateLimitBackend(backend ratelimit.Backend) *Builder {
	b.backend = backend
	return b
}

// WithAuditSink sets the audit consumer. Without one, events are dispatched
// to a no-op sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the structured logger for swallowed anomalies. Defaults
// to a nop logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and returns a ready Engine. A Builder
// builds at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("token store is required")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		AccessTTL:     b.config.JWT.AccessTTL,
		SigningMethod: jwt.SigningMethod(b.config.JWT.SigningMethod),
		PrivateKey:    b.config.JWT.PrivateKey,
		PublicKey:     b.config.JWT.PublicKey,
		Issuer:        b.config.JWT.Issuer,
		Audience:      b.config.JWT.Audience,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil && b.redis != nil {
		backend = ratelimit.NewRedisBackend(b.redis, b.config.RateLimit.RedisPrefix)
	}
	if backend == nil {
		backend = ratelimit.NewMemoryBackend()
	}

	policy := b.config.RateLimit.Policy
	if policy == nil {
		policy = ratelimit.DefaultPolicy()
	}

	e := &Engine{
		config:  b.config,
		tokens:  token.NewManager(b.store, b.config.Token.RefreshTTL),
		limiter: ratelimit.NewLimiter(policy, backend, logger),
		jwt:     jwtManager,
		hasher:  hasher,
		users:   b.users,
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink),
		logger:  logger,
	}
	e.deps = e.buildDeps()

	b.built = true
	return e, nil
}

func (e *Engine) buildDeps() flows.Deps {
	deps := flows.Deps{
		Refresh: flows.RefreshDeps{
			Rotate:     e.tokens.Rotate,
			SignAccess: e.jwt.Generate,
		},
		Logout: flows.LogoutDeps{
			Revoke:    e.tokens.Revoke,
			RevokeAll: e.tokens.RevokeAll,
		},
	}
	if e.users == nil {
		// Session-surface-only engine; Login, Register, and ChangePassword
		// refuse with ErrEngineNotReady.
		return deps
	}

	findAccount := func(identifier string) (*flows.Account, error) {
		user, err := e.users.GetUserByIdentifier(identifier)
		if err != nil || user == nil {
			return nil, err
		}
		return &flows.Account{ID: user.ID, PasswordHash: user.PasswordHash}, nil
	}
	getAccount := func(userID string) (*flows.Account, error) {
		user, err := e.users.GetUserByID(userID)
		if err != nil || user == nil {
			return nil, err
		}
		return &flows.Account{ID: user.ID, PasswordHash: user.PasswordHash}, nil
	}
	validatePolicy := func(pw string) error {
		return password.Validate(pw, e.config.Password.MinLength)
	}

	deps.Login = flows.LoginDeps{
		FindAccount:    findAccount,
		VerifyPassword: e.hasher.Verify,
		IssueToken:     e.tokens.Issue,
		SignAccess:     e.jwt.Generate,
	}
	deps.Register = flows.RegisterDeps{
		FindAccount:    findAccount,
		ValidatePolicy: validatePolicy,
		HashPassword:   e.hasher.Hash,
		CreateAccount:  e.users.CreateUser,
	}
	deps.ChangePassword = flows.ChangePasswordDeps{
		GetAccount:     getAccount,
		VerifyPassword: e.hasher.Verify,
		ValidatePolicy: validatePolicy,
		HashPassword:   e.hasher.Hash,
		UpdateHash:     e.users.UpdatePasswordHash,
		RevokeAll:      e.tokens.RevokeAll,
	}
	return deps
}
