package flows

// RegisterFailureKind classifies registration failures for root-level
// mapping.
type RegisterFailureKind int

const (
	RegisterFailureNone RegisterFailureKind = iota
	RegisterFailureExists
	RegisterFailureWeakPassword
	RegisterFailureLookup
	RegisterFailureHash
	RegisterFailureCreate
)

// RegisterDeps captures registration flow dependencies.
type RegisterDeps struct {
	FindAccount    func(identifier string) (*Account, error)
	ValidatePolicy func(password string) error
	HashPassword   func(password string) (string, error)
	CreateAccount  func(identifier, passwordHash string) (string, error)
}

// RegisterResult carries the new account's ID or failure metadata.
type RegisterResult struct {
	Failure RegisterFailureKind
	Err     error
	UserID  string
}

// RunRegister creates an account after uniqueness and password-policy
// checks. The identifier lookup happens before the expensive hash.
func RunRegister(identifier, password string, deps RegisterDeps) RegisterResult {
	existing, err := deps.FindAccount(identifier)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureLookup, Err: err}
	}
	if existing != nil {
		return RegisterResult{Failure: RegisterFailureExists}
	}

	if err := deps.ValidatePolicy(password); err != nil {
		return RegisterResult{Failure: RegisterFailureWeakPassword, Err: err}
	}

	hash, err := deps.HashPassword(password)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureHash, Err: err}
	}

	userID, err := deps.CreateAccount(identifier, hash)
	if err != nil {
		return RegisterResult{Failure: RegisterFailureCreate, Err: err}
	}

	return RegisterResult{UserID: userID}
}
