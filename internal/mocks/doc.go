// Package mocks provides shared test doubles for the store, auth and mail
// interfaces.
//
// Store and notifier doubles are testify mocks:
//
//	users := new(mocks.UserStore)
//	users.On("GetByID", mock.Anything, id).Return(user, nil)
//
// Token and password doubles use function fields with static defaults:
//
//	tokens := &mocks.MockJWTService{Token: "access-token"}
//
// Transactor runs the callback against the stores it was given, so tests can
// assert on the same mocks inside and outside a transaction.
package mocks
