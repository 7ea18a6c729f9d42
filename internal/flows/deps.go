package flows

// Account is the minimal user view the flows need from the user provider.
type Account struct {
	ID           string
	PasswordHash string
}

// Deps groups flow dependency sets. The root engine builds this once at
// Build time and delegates request methods to the matching flow.
type Deps struct {
	Login          LoginDeps
	Refresh        RefreshDeps
	Logout         LogoutDeps
	Register       RegisterDeps
	ChangePassword ChangePasswordDeps
}
