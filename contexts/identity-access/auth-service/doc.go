// Package auth implements accounts for the identity-access context: user
// registration, credential checks, bearer token issue and resolution,
// password reset and admin user management.
package auth
