// Package mocks provides gomock doubles for the ports the service layer depends on.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(domainauth.Token{Value: "t"}, nil)
package mocks

// Generate mocks for the AuthAPI and SessionStore ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/expensetracker/web/internal/ports AuthAPI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/expensetracker/web/internal/ports SessionStore
