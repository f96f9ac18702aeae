// Package integration contains the ports to Google's OAuth2 and Business
// Profile APIs used by the dashboard.
//
// Key concepts:
//   - OAuthProvider: authorization code flow with PKCE, token refresh and revocation
//   - OAuthStateStore: single-use state tokens correlating a consent redirect with its tenant and user
//   - BusinessProfilePlatform: accounts, locations, reviews, Q&A, local posts, media and performance metrics
//   - TokenCipher: encryption of stored access and refresh tokens
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
