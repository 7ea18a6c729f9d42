// Package password hashes and verifies user passwords with argon2id and
// applies the password acceptance policy. Hashes are encoded in PHC string
// format so parameters travel with the hash.
package password
