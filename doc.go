// Package accounts manages the account and API-key lifecycle backing the
// farm-data API: registration, email verification, key rotation, password
// changes, and administrative enable/disable.
//
// Account lifecycle:
//   - Accounts are created inactive with no key material. Email verification
//     flips is_active; the disabled flag is an independent administrative
//     lock. Key issuance and password changes require an active, enabled
//     account, checked in that order.
//   - API keys are bearer secrets. Only the bcrypt hash of salt+key is
//     stored, and the salt/hash pair is always rewritten together in a
//     single statement.
//
// Command handlers:
//   - Every operation is a Message plus Handler pair executed against a
//     RepositoryManager. Handlers compute the precise error kind via
//     go-errors categories; transport code maps those to status codes.
//     Notification delivery is best effort and never rolls back persisted
//     state.
//
// Guarding:
//   - KeyGuard fails closed: a missing account, a disabled account, or a
//     key that does not verify against the stored hash all yield the same
//     rejection. The middleware/keyware package applies the guard to HTTP
//     routes.
package accounts
